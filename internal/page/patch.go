package page

import "html/template"

// PatchKind names one DOM mutation the browser applies.
type PatchKind string

const (
	PatchShowSection     PatchKind = "show-section"
	PatchSetHTML         PatchKind = "set-html"
	PatchResetForm       PatchKind = "reset-form"
	PatchSetButton       PatchKind = "set-button"
	PatchAlert           PatchKind = "alert"
	PatchReplaceFragment PatchKind = "replace-fragment"
	PatchPushFragment    PatchKind = "push-fragment"
	PatchToggleDebug     PatchKind = "toggle-debug"
)

// Patch is one rendering instruction for the browser.
type Patch struct {
	Kind     PatchKind     `json:"kind"`
	Target   string        `json:"target,omitempty"`
	HTML     template.HTML `json:"html,omitempty"`
	Text     string        `json:"text,omitempty"`
	Disabled bool          `json:"disabled,omitempty"`
	Visible  bool          `json:"visible,omitempty"`
}
