// =============================================================================
// Record Converter - Handler Registry
// =============================================================================
//
// The registry maps a lowercase file extension (without the dot) to the
// handler for that format. It is built once from the configuration and only
// read afterwards.
//
//   csv  -> csvcodec
//   json -> jsoncodec
//   xml  -> xmlcodec
//   bin  -> bincodec
//   xlsx -> xlsxcodec
//
// =============================================================================

package converter

import (
	"sort"
	"strings"

	"github.com/ginjaninja78/record-converter/internal/bincodec"
	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/csvcodec"
	"github.com/ginjaninja78/record-converter/internal/jsoncodec"
	"github.com/ginjaninja78/record-converter/internal/xlsxcodec"
	"github.com/ginjaninja78/record-converter/internal/xmlcodec"
)

// Registry is an immutable extension to handler table.
type Registry struct {
	handlers map[string]codec.Handler
}

// NewRegistry creates the registry of every supported format.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		handlers: map[string]codec.Handler{
			csvcodec.Extension:  csvcodec.New(cfg.CSV, cfg.Output),
			jsoncodec.Extension: jsoncodec.New(cfg.JSON, cfg.Output),
			xmlcodec.Extension:  xmlcodec.New(cfg.XML, cfg.Output),
			bincodec.Extension:  bincodec.New(cfg.Output),
			xlsxcodec.Extension: xlsxcodec.New(cfg.Output),
		},
	}
}

// Lookup returns the handler for ext. The lookup ignores case.
func (r *Registry) Lookup(ext string) (codec.Handler, bool) {
	h, ok := r.handlers[strings.ToLower(ext)]
	return h, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.handlers))
	for ext := range r.handlers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
