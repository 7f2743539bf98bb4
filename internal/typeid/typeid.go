package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixText    = "text"
	PrefixImage   = "image"
	PrefixShape   = "shape"
	PrefixSession = "sess"
	PrefixAsset   = "asset"
	PrefixExport  = "exp"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

// NewElementID returns a fresh id prefixed with the element type, so
// "text_01h..." for text elements. Unknown types fall back to "el".
func NewElementID(elementType string) string {
	switch elementType {
	case PrefixText, PrefixImage, PrefixShape:
		return New(elementType)
	default:
		return New("el")
	}
}

func NewSessionID() string { return New(PrefixSession) }
func NewAssetID() string   { return New(PrefixAsset) }
func NewExportID() string  { return New(PrefixExport) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
