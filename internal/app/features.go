package app

import (
	"github.com/vk/aotbake/features/termglue"
	"github.com/vk/aotbake/internal/feature"
)

// builtinFeatures returns the features compiled into the aotbake binary.
// Features carry per-build state (termglue's once-guard), so each App gets
// fresh instances.
func builtinFeatures() []feature.Feature {
	return []feature.Feature{
		termglue.New(),
	}
}
