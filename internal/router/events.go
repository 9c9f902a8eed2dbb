package router

// State is the router's owned state: the visible section.
type State struct {
	Active string
}

// Event is an input to the router state machine.
type Event interface{ routerEvent() }

// PageReady fires once when the page finished loading.
type PageReady struct{ Fragment string }

// FragmentChanged fires after the URL fragment changed.
type FragmentChanged struct{ Fragment string }

// NavClicked fires when a navigation control is clicked.
type NavClicked struct{ Section string }

func (PageReady) routerEvent()       {}
func (FragmentChanged) routerEvent() {}
func (NavClicked) routerEvent()      {}

// Effect is a side effect requested by a transition.
type Effect interface{ routerEffect() }

// ShowSection makes ID the only visible section.
type ShowSection struct{ ID string }

// ReplaceFragment rewrites the fragment without a history entry and without a change event.
type ReplaceFragment struct{ ID string }

// AssignFragment sets the fragment with a history entry; the change event follows asynchronously.
type AssignFragment struct{ ID string }

// LoadRemote asks for the remote lists of Section.
type LoadRemote struct{ Section string }

func (ShowSection) routerEffect()     {}
func (ReplaceFragment) routerEffect() {}
func (AssignFragment) routerEffect()  {}
func (LoadRemote) routerEffect()      {}
