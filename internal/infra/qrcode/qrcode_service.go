package qrcode

import (
	"net/url"
	"strings"

	"cloudburst/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Labels are printed and stuck on outdoor enclosures, so unknown levels fall
// back to Medium rather than Low.
//
//nolint:gochecknoglobals
var recoveryLevels = map[string]qrcode.RecoveryLevel{
	"L": qrcode.Low,
	"M": qrcode.Medium,
	"Q": qrcode.High,
	"H": qrcode.Highest,
}

type labelPrinter struct {
	size    int
	level   qrcode.RecoveryLevel
	baseURL string
}

func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	level, ok := recoveryLevels[strings.ToUpper(errorCorrectionLevel)]
	if !ok {
		level = qrcode.Medium
	}
	if size <= 0 {
		size = defaultSize
	}

	return &labelPrinter{
		size:    size,
		level:   level,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GenerateNodeLabel renders the node's dashboard link as a PNG.
func (p *labelPrinter) GenerateNodeLabel(nodeID, nodeName string) ([]byte, error) {
	if nodeID == "" {
		return nil, errors.New("node id is required for a label")
	}

	png, err := qrcode.Encode(p.labelContent(nodeID, nodeName), p.level, p.size)
	if err != nil {
		return nil, errors.Wrapf(err, "encode label for node %s", nodeID)
	}

	return png, nil
}

// labelContent is a deep link when a base URL is configured, otherwise the
// bare node id. The display name rides along so the landing page can show it
// before the node loads.
func (p *labelPrinter) labelContent(nodeID, nodeName string) string {
	if p.baseURL == "" {
		return nodeID
	}

	link := p.baseURL + "/nodes/" + url.PathEscape(nodeID)
	if nodeName != "" && nodeName != nodeID {
		link += "?" + url.Values{"name": {nodeName}}.Encode()
	}

	return link
}
