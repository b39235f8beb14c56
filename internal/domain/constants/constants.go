package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Record store providers
const (
	StoreProviderMemory   = "memory"
	StoreProviderFirebase = "firebase"
	StoreProviderPostgres = "postgres"
)

// SMS gateways
const (
	SMSGatewaySimulated = "simulated"
	SMSGatewayTwilio    = "twilio"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Top-level collections of the record store
const (
	CollectionNodes         = "nodes"
	CollectionAlerts        = "alerts"
	CollectionContacts      = "contacts"
	CollectionNotifications = "notifications"
	CollectionLogs          = "logs"
)
