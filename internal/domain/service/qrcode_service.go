package service

// QRCodeService generates printable node labels
type QRCodeService interface {
	// GenerateNodeLabel returns a PNG QR code linking to the node's dashboard page
	GenerateNodeLabel(nodeID, nodeName string) ([]byte, error)
}
