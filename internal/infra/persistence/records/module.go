package records

import "go.uber.org/fx"

// Module provides every record-backed repository
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewNodeRepository,
		NewContactRepository,
		NewAlertRepository,
		NewNotificationRepository,
		NewLogRepository,
	),
)
