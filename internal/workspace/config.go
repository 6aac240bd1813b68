package workspace

type Config struct {
	// Directory holding gist clones
	BaseDir string
	// Keep the clone after publishing
	KeepClone bool

	// Credentials for cloning over https, private gists need them
	Username string
	Token    string
}
