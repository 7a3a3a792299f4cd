package image

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Manifest is the serialized form of a finished build.
type Manifest struct {
	BuildID            string              `json:"build_id"`
	Resources          []ResourceManifest  `json:"resources"`
	RuntimeInitClasses []string            `json:"runtime_init_classes"`
	NativeAccessFields map[string][]string `json:"native_access_fields"`
}

// ResourceManifest describes one embedded resource. Data carries the
// payload for present resources; Absent marks the pass-through
// registration of a resource the classpath did not provide.
type ResourceManifest struct {
	Path   string `json:"path"`
	Size   int    `json:"size"`
	Absent bool   `json:"absent,omitempty"`
	Data   []byte `json:"data,omitempty"`
}

// Manifest snapshots the builder into its serializable form. Entries are
// sorted so the output is deterministic for a given set of registrations.
func (b *Builder) Manifest() *Manifest {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := &Manifest{
		BuildID:            b.buildID,
		RuntimeInitClasses: make([]string, 0, len(b.runtimeInit)),
		NativeAccessFields: make(map[string][]string, len(b.nativeFields)),
	}

	paths := make([]string, 0, len(b.resources))
	for path := range b.resources {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		entry := b.resources[path]
		m.Resources = append(m.Resources, ResourceManifest{
			Path:   path,
			Size:   len(entry.data),
			Absent: entry.absent,
			Data:   entry.data,
		})
	}

	for name := range b.runtimeInit {
		m.RuntimeInitClasses = append(m.RuntimeInitClasses, name)
	}
	sort.Strings(m.RuntimeInitClasses)

	for className, set := range b.nativeFields {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		m.NativeAccessFields[className] = names
	}

	return m
}

// WriteManifest renders the manifest as indented JSON.
func (b *Builder) WriteManifest(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b.Manifest()); err != nil {
		return fmt.Errorf("failed to encode image manifest: %w", err)
	}
	return nil
}
