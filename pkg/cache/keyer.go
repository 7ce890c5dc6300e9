package cache

// ArtifactKeyOpts holds every render input besides the diagram itself.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	View       string  `json:"view"`
	Padding    float64 `json:"padding"`
	Scale      float64 `json:"scale"`
	Background string  `json:"background,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	// Generator fingerprints the stroke generator settings.
	Generator string `json:"generator,omitempty"`
}

// Keyer maps cacheable inputs to cache keys.
type Keyer interface {
	// DiagramKey keys the canonical text of a parsed source.
	DiagramKey(sourceHash string) string
	// ArtifactKey keys a rendered artifact of a canonical diagram.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DiagramKey returns "diagram:<hash>".
func (DefaultKeyer) DiagramKey(sourceHash string) string {
	return "diagram:" + sourceHash
}

// ArtifactKey returns "artifact:<sha256 of hash and options>".
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}
