package forge

// NewComparer creates a compare client for the configured forge type.
func NewComparer(cfg Config) (Comparer, error) {
	switch cfg.Type {
	case TypeGitHub:
		c, err := NewGitHubClient(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case TypeGitLab:
		c, err := NewGitLabClient(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, ErrForgeUnsupported.WithContext("type", string(cfg.Type))
	}
}

func requireToken(cfg Config) error {
	if cfg.Token == "" {
		return ErrAuthRequired.WithContext("type", string(cfg.Type))
	}
	return nil
}
