package hcl

// manifestFile is the gohcl schema for one manifest file.
type manifestFile struct {
	Image   *imageBlock  `hcl:"image,block"`
	Classes []classBlock `hcl:"class,block"`
}

// imageBlock holds image-level settings, at most one block per file.
// Blocks from different files merge by appending.
type imageBlock struct {
	EntryPoints   []string `hcl:"entrypoints,optional"`
	ResourceRoots []string `hcl:"resource_roots,optional"`
}

// classBlock is one class of the compiling program.
type classBlock struct {
	Name    string        `hcl:"name,label"`
	Fields  []string      `hcl:"fields,optional"`
	Methods []methodBlock `hcl:"method,block"`
}

// methodBlock is one declared method. Calls hold qualified method keys
// ("pkg.Class#method").
type methodBlock struct {
	Name   string   `hcl:"name,label"`
	Calls  []string `hcl:"calls,optional"`
	Native bool     `hcl:"native,optional"`
}
