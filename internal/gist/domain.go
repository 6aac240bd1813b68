package gist

const (
	// PlaceholderFile is the file every new gist starts with. The API refuses
	// to create a gist without content.
	PlaceholderFile    = "gistitfile"
	PlaceholderContent = "Hello gistit"
)

type Draft struct {
	Description string
	Public      bool
}

// Descriptor identifies a created gist.
type Descriptor struct {
	ID      string
	PullURL string
	PushURL string
	HTMLURL string
	Public  bool
}
