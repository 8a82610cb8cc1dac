// Package profile carries the library-specific naming knowledge the
// generators depend on: namespace prefixes, enumeration suffixes, the
// external-handle allow-list, error-domain renames and the scalar
// spelling table. Defaults describe Flatpak; a YAML file can overlay
// them for other GObject libraries.
package profile

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile describes the introspected library.
type Profile struct {
	// Namespace is the introspected namespace name ("Flatpak"). Types
	// belonging to the library appear as "<Namespace>.<Name>".
	Namespace string `yaml:"namespace"`

	// CPrefix is the foreign spelling prefix ("Flatpak" as in
	// "FlatpakInstallation"). Also used to back-fill missing class c:type
	// attributes.
	CPrefix string `yaml:"c_prefix"`

	// EnumSuffixes mark bounded-value types by name suffix.
	EnumSuffixes []string `yaml:"enum_suffixes"`

	// ExternalHandles are well-known foreign types marshalled as opaque
	// boxed pointers.
	ExternalHandles []string `yaml:"external_handles"`

	// Renames pins exported names for specific foreign symbols,
	// unconditionally. Keyed by c:identifier.
	Renames map[string]string `yaml:"renames"`

	// KnownObjects are element kinds that get re-boxed into library
	// wrapper classes when they appear in pointer-array returns.
	KnownObjects []string `yaml:"known_objects"`

	// ScalarCTypes back-fills missing c:type spellings for scalar
	// introspected types.
	ScalarCTypes map[string]string `yaml:"scalar_c_types"`

	// Includes are the library headers the native layer needs.
	Includes []string `yaml:"includes"`
}

// Default returns the Flatpak profile.
func Default() *Profile {
	return &Profile{
		Namespace:    "Flatpak",
		CPrefix:      "Flatpak",
		EnumSuffixes: []string{"Type", "Flags", "Kind"},
		ExternalHandles: []string{
			"Gio.File",
			"Gio.Cancellable",
			"Gio.FileMonitor",
			"GLib.Bytes",
			"GLib.HashTable",
			"GLib.KeyFile",
			"GLib.Variant",
			"GLib.List",
			"GLib.PtrArray",
			"GLib.Strv",
		},
		Renames: map[string]string{
			"flatpak_error_quark":        "errorQuark",
			"flatpak_portal_error_quark": "portalErrorQuark",
		},
		KnownObjects: []string{
			"InstalledRef",
			"RemoteRef",
			"Remote",
			"Ref",
			"RelatedRef",
			"TransactionOperation",
			"Instance",
			"Installation",
			"BundleRef",
		},
		ScalarCTypes: map[string]string{
			"gboolean":       "bool",
			"gint":           "int",
			"guint":          "unsigned int",
			"gint8":          "int8_t",
			"guint8":         "uint8_t",
			"gint16":         "int16_t",
			"guint16":        "uint16_t",
			"gint32":         "int32_t",
			"guint32":        "uint32_t",
			"gint64":         "int64_t",
			"guint64":        "uint64_t",
			"glong":          "long",
			"gulong":         "unsigned long",
			"gshort":         "short",
			"gushort":        "unsigned short",
			"gsize":          "size_t",
			"gssize":         "ssize_t",
			"gdouble":        "double",
			"gfloat":         "float",
			"utf8":           "const char*",
			"filename":       "const char*",
			"gpointer":       "void*",
			"none":           "void",
			"GLib.Quark":     "GQuark",
			"GLib.Bytes":     "GBytes*",
			"GLib.HashTable": "GHashTable*",
			"GLib.KeyFile":   "GKeyFile*",
			"GLib.Variant":   "GVariant*",
			"GLib.List":      "GList*",
			"GLib.PtrArray":  "GPtrArray*",
			"GLib.Strv":      "char**",
		},
		Includes: []string{
			"flatpak/flatpak.h",
			"glib.h",
		},
	}
}

// Load overlays a YAML profile file onto the defaults. List fields in the
// file replace the default lists wholesale; map fields merge key by key.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &NotFoundError{
			Path: path,
			Err:  err,
		}
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, &ParseError{
			Path: path,
			Err:  err,
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks profile fields.
func (p *Profile) Validate() error {
	if p.Namespace == "" {
		return &ValidationError{
			Field:   "namespace",
			Message: "namespace is required",
		}
	}

	if p.CPrefix == "" {
		return &ValidationError{
			Field:   "c_prefix",
			Message: "c_prefix is required",
		}
	}

	if len(p.EnumSuffixes) == 0 {
		return &ValidationError{
			Field:   "enum_suffixes",
			Message: "at least one enumeration suffix is required",
		}
	}

	for symbol, name := range p.Renames {
		if name == "" {
			return &ValidationError{
				Field:   "renames",
				Message: "empty exported name for symbol '" + symbol + "'",
			}
		}
	}

	return nil
}

// GirPrefix returns the "<Namespace>." prefix of library type names.
func (p *Profile) GirPrefix() string {
	return p.Namespace + "."
}

// IsExternalHandle reports whether girType is in the handle allow-list.
func (p *Profile) IsExternalHandle(girType string) bool {
	for _, h := range p.ExternalHandles {
		if girType == h {
			return true
		}
	}
	return false
}

// IsKnownObject reports whether an element kind is wrapped as a library
// class.
func (p *Profile) IsKnownObject(element string) bool {
	for _, k := range p.KnownObjects {
		if element == k {
			return true
		}
	}
	return false
}

// HandleTail reports whether element matches the unqualified tail of an
// allow-listed handle type, as element kinds inside containers are
// spelled without their namespace.
func (p *Profile) HandleTail(element string) bool {
	for _, h := range p.ExternalHandles {
		tail := h
		if i := strings.LastIndex(h, "."); i >= 0 {
			tail = h[i+1:]
		}
		if element == tail {
			return true
		}
	}
	return false
}

// ScalarCType returns the foreign spelling for a scalar introspected
// type name, or "" when the name is not in the table.
func (p *Profile) ScalarCType(girType string) string {
	return p.ScalarCTypes[girType]
}
