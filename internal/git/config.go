package git

// Config holds the settings of the commit-and-push pipeline.
type Config struct {
	// SSHUser is the user part of the push url, "git" for GitHub.
	SSHUser string
	// SSHHost is the host part of the push url, e.g. "gist.github.com".
	SSHHost string

	// CommitMessage is used for the publish commit. Empty is allowed.
	CommitMessage string
	// AllowEmptyCommit produces a commit even when the staged tree equals
	// the parent tree.
	AllowEmptyCommit bool

	// Author is used when the repository configuration has no user identity.
	Author Identity

	// KeyFingerprint restricts agent keys to the one with this SHA256
	// fingerprint ("SHA256:..."). Empty accepts any agent key.
	KeyFingerprint string
}

type Identity struct {
	Name  string
	Email string
}

func DefaultConfig() Config {
	//nolint:exhaustruct //default values
	return Config{
		SSHUser:          "git",
		SSHHost:          "gist.github.com",
		AllowEmptyCommit: true,
	}
}
