package site

import (
	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/page"
)

// File is the top-level structure of the site file.
//
//	default: profile
//	sections:
//	  - id: profile
//	    title: Profile
//	    body: <p>Hello!</p>
//	  - id: blog
//	    title: Blog
//	    remote: true
//	messages:
//	  no_posts: Nothing here yet.
type File struct {
	Default  string           `yaml:"default"`
	Sections []domain.Section `yaml:"sections"`
	Messages page.Messages    `yaml:"messages"`
}

// Site is a validated site structure, ready to start sessions from.
type Site struct {
	Sections []domain.Section
	Default  string
	Messages page.Messages
}

// Builtin is served when no site file is configured.
func Builtin() Site {
	return Site{
		Sections: []domain.Section{
			{ID: "profile", Title: "Profile", Body: "<p>Welcome to my corner of the web.</p>"},
			{ID: "blog", Title: "Blog", Remote: true},
			{ID: "recommendations", Title: "Recommendations", Recommendations: true},
		},
		Default:  "profile",
		Messages: page.DefaultMessages(),
	}
}
