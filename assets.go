package assets

import _ "embed"

// DefaultRegistry is the built-in pipeline/workflow document, used
// when no deckhand.yml is present in the working directory.
//
//go:embed deckhand.yml
var DefaultRegistry []byte
