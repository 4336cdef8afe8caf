package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Fixture file contract (YAML):
//
//	authors:
//	  - name: demo1
//	    email: demo1@mail.com
//	    password: welcome
//	posts:
//	  - author: demo1@mail.com
//	    title: First Post
//	    content: hello
//	    tags: [intro]
//	edits:
//	  - editor: demo2@mail.com
//	    post: first-post        # post slug
//	    new_content: better hello
type Fixtures struct {
	Authors []AuthorFixture `yaml:"authors"`
	Posts   []PostFixture   `yaml:"posts"`
	Edits   []EditFixture   `yaml:"edits"`
}

type AuthorFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type PostFixture struct {
	Author  string   `yaml:"author"`
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"`
	Tags    []string `yaml:"tags"`
}

type EditFixture struct {
	Editor     string `yaml:"editor"`
	Post       string `yaml:"post"`
	NewContent string `yaml:"new_content"`
}

func loadFixtures(path string) (Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i, a := range fx.Authors {
		if a.Email == "" || a.Password == "" {
			return Fixtures{}, fmt.Errorf("author %d: email and password are required", i)
		}
	}
	return fx, nil
}
