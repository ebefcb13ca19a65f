// Package maps loads the map catalogue sessions are created from.
//
// A map directory holds .json and .hcl files; the file name without its
// extension is the map ID. JSON files either carry a "layout" of key strings
// or the "terrain" grid written by SaveMap. HCL files use the attributes
// name, layout, and the optional description and metadata.
//
// Loaded maps are cached. Every map returned is a fresh copy.
package maps
