package page

// Messages holds every user-facing text the page renders.
// Empty fields fall back to the defaults.
type Messages struct {
	LoadingPosts    string `yaml:"loading_posts"`
	LoadingComments string `yaml:"loading_comments"`
	NoPosts         string `yaml:"no_posts"`
	NoComments      string `yaml:"no_comments"`
	CommentsHeading string `yaml:"comments_heading"`
	PostsError      string `yaml:"posts_error"`
	CommentsError   string `yaml:"comments_error"`
	DebugHint       string `yaml:"debug_hint"`
	PostedOn        string `yaml:"posted_on"`

	CommentPosting       string `yaml:"comment_posting"`
	CommentThanks        string `yaml:"comment_thanks"`
	CommentFailed        string `yaml:"comment_failed"`
	RecommendationSend   string `yaml:"recommendation_sending"`
	RecommendationThanks string `yaml:"recommendation_thanks"`
	RecommendationFailed string `yaml:"recommendation_failed"`

	TestingConnection string `yaml:"testing_connection"`
	ShowDebug         string `yaml:"show_debug"`
	HideDebug         string `yaml:"hide_debug"`
}

// DefaultMessages returns the built-in English texts.
func DefaultMessages() Messages {
	return Messages{
		LoadingPosts:    "Loading blog posts...",
		LoadingComments: "Loading comments...",
		NoPosts:         "No blog posts yet. Check back soon!",
		NoComments:      "No comments yet. Be the first to leave one!",
		CommentsHeading: "What others are saying:",
		PostsError:      "Could not load blog posts.",
		CommentsError:   "Could not load comments.",
		DebugHint:       `Click the "Show Debug Info" button to troubleshoot connection issues.`,
		PostedOn:        "Posted on:",

		CommentPosting:       "Posting...",
		CommentThanks:        "Thank you! Your comment has been submitted.",
		CommentFailed:        "Sorry, there was an error posting your comment. Please try again later.",
		RecommendationSend:   "Sending...",
		RecommendationThanks: "Thank you! Your recommendation has been submitted.",
		RecommendationFailed: "Sorry, there was an error submitting your recommendation. Please try again later.",

		TestingConnection: "Testing connection...",
		ShowDebug:         "Show Debug Info",
		HideDebug:         "Hide Debug Info",
	}
}

// WithDefaults fills every empty field from DefaultMessages.
func (m Messages) WithDefaults() Messages {
	d := DefaultMessages()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&m.LoadingPosts, d.LoadingPosts)
	fill(&m.LoadingComments, d.LoadingComments)
	fill(&m.NoPosts, d.NoPosts)
	fill(&m.NoComments, d.NoComments)
	fill(&m.CommentsHeading, d.CommentsHeading)
	fill(&m.PostsError, d.PostsError)
	fill(&m.CommentsError, d.CommentsError)
	fill(&m.DebugHint, d.DebugHint)
	fill(&m.PostedOn, d.PostedOn)
	fill(&m.CommentPosting, d.CommentPosting)
	fill(&m.CommentThanks, d.CommentThanks)
	fill(&m.CommentFailed, d.CommentFailed)
	fill(&m.RecommendationSend, d.RecommendationSend)
	fill(&m.RecommendationThanks, d.RecommendationThanks)
	fill(&m.RecommendationFailed, d.RecommendationFailed)
	fill(&m.TestingConnection, d.TestingConnection)
	fill(&m.ShowDebug, d.ShowDebug)
	fill(&m.HideDebug, d.HideDebug)
	return m
}
