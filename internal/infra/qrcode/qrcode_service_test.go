package qrcode

import (
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestNewQRCodeService_Levels(t *testing.T) {
	tests := []struct {
		in   string
		want qrcode.RecoveryLevel
	}{
		{in: "L", want: qrcode.Low},
		{in: "m", want: qrcode.Medium},
		{in: "Q", want: qrcode.High},
		{in: "H", want: qrcode.Highest},
		{in: "invalid", want: qrcode.Medium},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p := NewQRCodeService(256, tt.in, "").(*labelPrinter)
			assert.Equal(t, tt.want, p.level)
		})
	}

	assert.Equal(t, defaultSize, NewQRCodeService(0, "M", "").(*labelPrinter).size)
}

func TestGenerateNodeLabel(t *testing.T) {
	for _, size := range []int{128, 256, 512} {
		p := NewQRCodeService(size, "M", "http://localhost:3000")

		png, err := p.GenerateNodeLabel("NODE_001", "Ridge gauge")
		require.NoError(t, err)
		require.Greater(t, len(png), len(pngMagic))
		assert.Equal(t, pngMagic, png[:4])
	}
}

func TestGenerateNodeLabel_RequiresID(t *testing.T) {
	_, err := NewQRCodeService(256, "M", "").GenerateNodeLabel("", "name")
	assert.Error(t, err)
}

func TestLabelContent(t *testing.T) {
	withBase := NewQRCodeService(256, "M", "https://dash.example.org/").(*labelPrinter)
	assert.Equal(t, "https://dash.example.org/nodes/NODE%201", withBase.labelContent("NODE 1", ""))
	assert.Equal(t, "https://dash.example.org/nodes/N1?name=Ridge+gauge", withBase.labelContent("N1", "Ridge gauge"))
	assert.Equal(t, "https://dash.example.org/nodes/N1", withBase.labelContent("N1", "N1"))

	bare := NewQRCodeService(256, "M", "").(*labelPrinter)
	assert.Equal(t, "NODE_001", bare.labelContent("NODE_001", "Ridge gauge"))
}
