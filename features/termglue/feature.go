// Package termglue makes the bundled jline/jansi terminal stack work in an
// ahead-of-time image. The library probes the console at class-init time
// and binds struct fields from native code, so its classes must initialize
// at process start, their fields must stay visible to foreign code, and
// its capability files and native library must ride along in the image.
package termglue

import (
	"sync/atomic"

	"github.com/vk/aotbake/internal/catalog"
	"github.com/vk/aotbake/internal/feature"
)

// MarkerClass gates the feature: the terminal stack is considered present
// iff this class resolves.
const MarkerClass = "org.jline.terminal.TerminalBuilder"

const (
	// resourceDir is where the library keeps its capability files.
	resourceDir = "org/jline/utils/"

	// nativeLibraryResource is the one platform binary bundled inside the
	// library archive, resolved via the owning class's own loader.
	nativeLibraryResource = "META-INF/native/windows64/jansi.dll"

	// initMethodName is the native method each JNI class uses to bind its
	// declared fields. Its reachability implies the class initializer is
	// reachable too.
	initMethodName = "init"
)

// resourceNames are the capability files embedded eagerly, before analysis.
var resourceNames = []string{
	"capabilities.txt",
	"colors.txt",
	"ansi.caps",
	"dumb.caps",
	"dumb-color.caps",
	"screen.caps",
	"screen-256color.caps",
	"windows.caps",
	"windows-256color.caps",
	"windows-conemu.caps",
	"windows-vtp.caps",
	"xterm.caps",
	"xterm-256color.caps",
}

// jniClassNames are the classes whose fields native code reads and writes.
var jniClassNames = []string{
	"org.fusesource.jansi.internal.CLibrary",
	"org.fusesource.jansi.internal.CLibrary$WinSize",
	"org.fusesource.jansi.internal.CLibrary$Termios",
	"org.fusesource.jansi.internal.Kernel32",
	"org.fusesource.jansi.internal.Kernel32$SMALL_RECT",
	"org.fusesource.jansi.internal.Kernel32$COORD",
	"org.fusesource.jansi.internal.Kernel32$CONSOLE_SCREEN_BUFFER_INFO",
	"org.fusesource.jansi.internal.Kernel32$CHAR_INFO",
	"org.fusesource.jansi.internal.Kernel32$KEY_EVENT_RECORD",
	"org.fusesource.jansi.internal.Kernel32$MOUSE_EVENT_RECORD",
	"org.fusesource.jansi.internal.Kernel32$WINDOW_BUFFER_SIZE_RECORD",
	"org.fusesource.jansi.internal.Kernel32$FOCUS_EVENT_RECORD",
	"org.fusesource.jansi.internal.Kernel32$MENU_EVENT_RECORD",
	"org.fusesource.jansi.internal.Kernel32$INPUT_RECORD",
}

// runtimeInitClassNames need run-time initialization because they reference
// the JNI classes or hold static state that depends on the run-time console.
var runtimeInitClassNames = []string{
	"org.fusesource.jansi.AnsiConsole",
	"org.fusesource.jansi.WindowsAnsiOutputStream",
	"org.fusesource.jansi.WindowsAnsiProcessor",
	"org.jline.terminal.impl.jna.win.JnaWinSysTerminal",
	"org.jline.terminal.impl.jansi.win.WindowsAnsiWriter",
	"org.jline.terminal.impl.jansi.win.JansiWinConsoleWriter",
	"org.fusesource.jansi.internal.CLibrary",
	"org.fusesource.jansi.internal.CLibrary$Termios",
	"org.fusesource.jansi.internal.CLibrary$WinSize",
}

// Feature implements feature.Feature for the terminal stack.
type Feature struct {
	// nativeLibRegistered guards the one-time embed of the native library.
	// Reachability handlers fire concurrently on analysis workers, so this
	// must be a compare-and-swap, not a check-then-set.
	nativeLibRegistered atomic.Bool
}

// New creates the feature.
func New() *Feature {
	return &Feature{}
}

// Name implements feature.Feature.
func (f *Feature) Name() string {
	return "termglue"
}

// IsInConfiguration reports whether the terminal stack is on the classpath.
func (f *Feature) IsInConfiguration(access feature.ConfigurationAccess) bool {
	return access.FindClassByName(MarkerClass) != nil
}

// DuringSetup defers initialization of every resolvable class from both
// lists. Names that do not resolve are skipped: the library ships fewer
// native variants than the lists cover (the Windows classes are absent on
// a non-Windows classpath), and that is not an error.
func (f *Feature) DuringSetup(access feature.SetupAccess) {
	for _, name := range jniClassNames {
		if class := access.FindClassByName(name); class != nil {
			access.InitializeAtRunTime(class)
		}
	}
	for _, name := range runtimeInitClassNames {
		if class := access.FindClassByName(name); class != nil {
			access.InitializeAtRunTime(class)
		}
	}
}

// BeforeAnalysis installs a reachability handler on each JNI class's native
// "init" method and eagerly embeds the capability files.
//
// Each JNI class binds all of its declared fields inside "init", so the
// moment "init" is reachable every declared field must be registered for
// native access.
func (f *Feature) BeforeAnalysis(access feature.AnalysisAccess) {
	for _, name := range jniClassNames {
		class := access.FindClassByName(name)
		if class == nil {
			continue
		}
		initMethod := class.Method(initMethodName)
		if initMethod == nil {
			continue
		}
		access.RegisterReachabilityHandler(func(a feature.AnalysisAccess) {
			f.registerNativeFields(a, initMethod)
		}, initMethod)
	}

	// The capability files live next to the marker class, so its loader is
	// the right place to ask. IsInConfiguration has already proven the
	// marker resolves. Missing files register as-is; whether an absent
	// capability file is an error is the image consumer's call.
	loader := access.FindClassByName(MarkerClass).Loader()
	for _, name := range resourceNames {
		path := resourceDir + name
		access.RegisterResource(path, loader.Open(path))
	}
}

// registerNativeFields runs on an analysis worker when a watched "init"
// method is proven reachable.
func (f *Feature) registerNativeFields(access feature.AnalysisAccess, initMethod *catalog.Method) {
	owner := initMethod.Owner
	access.RegisterFieldsForNativeAccess(owner.DeclaredFields())

	if f.nativeLibRegistered.CompareAndSwap(false, true) {
		// The native library is bundled inside the library archive itself.
		access.RegisterResource(nativeLibraryResource, owner.Loader().Open(nativeLibraryResource))
	}
}
