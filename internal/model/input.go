package model

// Draft is the caller-supplied part of a new Article.
type Draft struct {
	Title       string
	Description string
	Keywords    []string
	Author      string
	Content     string
}

// Patch holds the fields of a partial update. A nil field keeps the stored
// value.
type Patch struct {
	Title       *string
	Description *string
	Keywords    *[]string
	Author      *string
	Content     *string
}
