package osdetail

import (
	"bytes"
	"context"
	"fmt"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/safing/osicons/info"
	"github.com/safing/osicons/log"
	"github.com/safing/osicons/modules"
)

// DebugInfo builds a markdown report for support requests.
type DebugInfo struct {
	bytes.Buffer

	// Style "github" puts every section into a collapsible block.
	Style string
}

// addSection writes a section. Empty lines are left out. Code sections are
// fenced.
func (di *DebugInfo) addSection(title string, code bool, lines ...string) {
	if di.Len() > 0 {
		di.WriteString("\n\n")
	}

	if di.Style == "github" {
		fmt.Fprintf(di, "<details>\n<summary>%s</summary>\n\n", title)
	} else {
		fmt.Fprintf(di, "**%s**:\n\n", title)
	}

	content := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			content = append(content, l)
		}
	}
	if code {
		fmt.Fprintf(di, "```\n%s\n```\n", strings.Join(content, "\n"))
	} else {
		di.WriteString(strings.Join(content, "\n"))
	}

	if di.Style == "github" {
		di.WriteString("\n</details>")
	}
}

// AddVersionInfo adds the build details.
func (di *DebugInfo) AddVersionInfo() {
	di.addSection("Version "+info.Version(), true, info.FullVersion())
}

// AddPlatformInfo adds the host platform, kernel and virtualization.
func (di *DebugInfo) AddPlatformInfo(ctx context.Context) {
	hi, err := HostInfo(ctx)
	if err != nil {
		di.addSection("Platform", false, "Failed to get: "+err.Error())
		return
	}

	var vm string
	if hi.VirtualizationRole == "guest" {
		vm = "VM: unidentified"
		if hi.VirtualizationSystem != "" {
			vm = "VM: " + hi.VirtualizationSystem
		}
	}

	di.addSection(
		fmt.Sprintf("Platform: %s %s", hi.Platform, hi.PlatformVersion),
		true,
		fmt.Sprintf("System: %s %s (%s) %s", hi.Platform, hi.OS, hi.PlatformFamily, hi.PlatformVersion),
		fmt.Sprintf("Kernel: %s %s", hi.KernelVersion, hi.KernelArch),
		vm,
	)
}

// AddHostOS adds the icon lookup result of the host.
func (di *DebugInfo) AddHostOS(ctx context.Context) {
	banner, result, err := HostOS(ctx)
	if err != nil {
		di.addSection("Host OS", false, "Failed to get: "+err.Error())
		return
	}

	di.addSection(
		"Host OS: "+result.Name,
		true,
		fmt.Sprintf("Banner: %q", banner),
		"Key: "+result.Key,
		"Image: "+result.Image,
		fmt.Sprintf("Monochrome: %v", result.Monochrome),
		fmt.Sprintf("Supported: %v", result.Supported),
	)
}

// AddLastReportedModuleError adds the last panic caught in a module.
func (di *DebugInfo) AddLastReportedModuleError() {
	me := modules.GetLastReportedError()
	if me == nil {
		di.addSection("No Module Error", false)
		return
	}
	di.addSection("Module Error", true, me.Error(), "", me.StackTrace)
}

// AddLastUnexpectedLogs adds the latest warnings and errors.
func (di *DebugInfo) AddLastUnexpectedLogs() {
	lines := log.GetLastUnexpectedLogs()
	if len(lines) == 0 {
		di.addSection("No Unexpected Logs", false)
		return
	}

	lines = append(lines, time.Now().Format("060102 15:04:05.000")+" NOW")
	di.addSection("Unexpected Logs", true, lines...)
}

// AddGoroutineStack adds the stacks of all goroutines.
func (di *DebugInfo) AddGoroutineStack() {
	var buf bytes.Buffer
	if err := pprof.Lookup("goroutine").WriteTo(&buf, 1); err != nil {
		di.addSection("Goroutine Stack", false, "Failed to get: "+err.Error())
		return
	}
	di.addSection("Goroutine Stack", true, buf.String())
}
