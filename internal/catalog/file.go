package catalog

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/blang/semver"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SchemaVersion is written by Export. Load accepts any 1.x.y file.
const SchemaVersion = "1.0.0"

var supportedSchema = semver.MustParse(SchemaVersion)

// fileCatalog is the on-disk TOML layout of a catalog.
type fileCatalog struct {
	SchemaVersion string  `toml:"schema_version"`
	Root          LayerID `toml:"root"`
	Layers        []Layer `toml:"layers"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog load %s", path)
	}
	defer f.Close()

	cat, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog load %s", path)
	}
	log.Info().Str("path", path).Int("layers", cat.Len()).Msg("catalog loaded")
	return cat, nil
}

// Decode parses a TOML catalog. Unknown keys are rejected.
func Decode(r io.Reader) (*Catalog, error) {
	var raw fileCatalog
	meta, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("decode catalog: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := checkSchemaVersion(raw.SchemaVersion); err != nil {
		return nil, err
	}

	root := raw.Root
	if !meta.IsDefined("root") {
		root = DefaultRoot
	}
	return New(root, raw.Layers...)
}

func checkSchemaVersion(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.Wrap(ErrUnsupportedVer, "schema_version is required")
	}
	v, err := semver.Parse(raw)
	if err != nil {
		return errors.Wrapf(ErrUnsupportedVer, "schema_version %q: %v", raw, err)
	}
	if v.Major != supportedSchema.Major {
		return errors.Wrapf(ErrUnsupportedVer, "schema_version %s, want %d.x.x", v, supportedSchema.Major)
	}
	return nil
}

// Export writes c in the format Load reads.
func Export(w io.Writer, c *Catalog) error {
	out := fileCatalog{
		SchemaVersion: SchemaVersion,
		Root:          c.Root(),
		Layers:        c.Layers(),
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return errors.Wrap(err, "encode catalog")
	}
	return nil
}
