package image

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/aotbake/internal/catalog"
)

// Builder collects registrations for one build. Safe for concurrent use.
type Builder struct {
	buildID string

	mu           sync.Mutex
	resources    map[string]*resourceEntry
	runtimeInit  map[string]struct{}
	nativeFields map[string]map[string]struct{}
}

type resourceEntry struct {
	data   []byte
	absent bool
}

// NewBuilder creates an empty builder with a fresh build id.
func NewBuilder() *Builder {
	return &Builder{
		buildID:      uuid.NewString(),
		resources:    make(map[string]*resourceEntry),
		runtimeInit:  make(map[string]struct{}),
		nativeFields: make(map[string]map[string]struct{}),
	}
}

// BuildID returns the unique id stamped into the manifest.
func (b *Builder) BuildID() string {
	return b.buildID
}

// EmbedResource records a resource payload for embedding. A nil reader is
// accepted and recorded as an explicitly-absent entry; deciding whether an
// absent resource is an error belongs to whoever consumes the image, not
// to the registration path. Embedding the same path twice panics.
func (b *Builder) EmbedResource(path string, r io.Reader) {
	var entry *resourceEntry
	if r == nil {
		entry = &resourceEntry{absent: true}
	} else {
		data, err := io.ReadAll(r)
		if err != nil {
			panic(fmt.Sprintf("image: reading resource %q: %v", path, err))
		}
		entry = &resourceEntry{data: data}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.resources[path]; exists {
		panic(fmt.Sprintf("image: resource %q embedded twice", path))
	}
	slog.Debug("Embedding resource.", "path", path, "absent", entry.absent, "bytes", len(entry.data))
	b.resources[path] = entry
}

// EmbeddedCount reports how many entries exist for the given path. The
// builder enforces at most one, so the result is 0 or 1.
func (b *Builder) EmbeddedCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.resources[path]; ok {
		return 1
	}
	return 0
}

// InitializeAtRunTime defers the class's static initialization to process
// start. Repeated registration of the same class is a no-op.
func (b *Builder) InitializeAtRunTime(class *catalog.Class) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.runtimeInit[class.Name]; ok {
		return
	}
	slog.Debug("Deferring class initialization to run time.", "class", class.Name)
	b.runtimeInit[class.Name] = struct{}{}
}

// RuntimeInitClasses returns the deferred-init class names, sorted.
func (b *Builder) RuntimeInitClasses() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.runtimeInit))
	for name := range b.runtimeInit {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterNativeAccessFields marks fields as readable and writable by
// foreign code at run time, which pins them against renaming and
// elimination. Idempotent per field.
func (b *Builder) RegisterNativeAccessFields(fields []*catalog.Field) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, field := range fields {
		set, ok := b.nativeFields[field.Owner.Name]
		if !ok {
			set = make(map[string]struct{})
			b.nativeFields[field.Owner.Name] = set
		}
		set[field.Name] = struct{}{}
	}
}

// NativeAccessFields returns the registered field names for a class, sorted.
func (b *Builder) NativeAccessFields(className string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.nativeFields[className]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
