// Package extrainfo parses the optional JSON sidecar trailing a
// "// EXTRA_INFO:" comment at the end of an input file. It is read by
// applyDCEGraphRemovals, applyImportAndExportNameChanges, and the two
// minification passes; emitDCEGraph reads only its exports list, and JSDCE
// never consults it.
package extrainfo

import "encoding/json"

// ExportEntry is one [jsName, wasmName] pair from extraInfo.exports.
type ExportEntry struct {
	JSName   string
	WasmName string
}

func (e *ExportEntry) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	e.JSName, e.WasmName = pair[0], pair[1]
	return nil
}

func (e ExportEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.JSName, e.WasmName})
}

// Globals accepts extraInfo.globals in either of its two accepted shapes:
// an object mapping original name to minified name, or a bare array of
// names (minifyGlobals mints fresh names for those itself).
type Globals struct {
	Mapping map[string]string
	Names   []string
}

func (g *Globals) UnmarshalJSON(data []byte) error {
	var asObject map[string]string
	if err := json.Unmarshal(data, &asObject); err == nil {
		g.Mapping = asObject
		return nil
	}
	var asArray []string
	if err := json.Unmarshal(data, &asArray); err != nil {
		return err
	}
	g.Names = asArray
	return nil
}

// AllNames returns every global name this field mentions, regardless of shape.
func (g *Globals) AllNames() []string {
	if g == nil {
		return nil
	}
	if g.Mapping != nil {
		names := make([]string, 0, len(g.Mapping))
		for k := range g.Mapping {
			names = append(names, k)
		}
		return names
	}
	return g.Names
}

// Info is the full sidecar shape; every field is optional and a pass reads
// only the ones it recognizes.
type Info struct {
	Mapping       map[string]string `json:"mapping,omitempty"`
	Exports       []ExportEntry     `json:"exports,omitempty"`
	UnusedExports []string          `json:"unusedExports,omitempty"`
	UnusedImports []string          `json:"unusedImports,omitempty"`
	Globals       *Globals          `json:"globals,omitempty"`
}

// Parse decodes the JSON payload following "// EXTRA_INFO:".
func Parse(jsonText string) (*Info, error) {
	var info Info
	if err := json.Unmarshal([]byte(jsonText), &info); err != nil {
		return nil, err
	}
	return &info, nil
}
