package main

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	StartURL string  `arg:"" name:"start-url" help:"First reader page URL, e.g. https://lib.eshia.ir/15050/1/0"`
	Output   string  `short:"o" default:"book_text.txt" help:"Output UTF-8 text file path"`
	MaxPages int     `name:"max-pages" default:"10000" help:"Safety cap for total pages to fetch"`
	Delay    float64 `default:"0" help:"Delay in seconds between page requests"`
	Timeout  float64 `default:"30" help:"HTTP timeout per request in seconds"`
	Retries  int     `default:"3" help:"Total attempt count per request"`
	Quiet    bool    `help:"Disable progress output on stderr"`
	Verbose  bool    `help:"Log each fetch on stderr"`
}

// validate checks flag ranges that Kong's types cannot express.
// Returns a user-facing message for the first violated constraint.
func (c *CLI) validate() string {
	switch {
	case c.MaxPages < 1:
		return "--max-pages must be >= 1"
	case c.Retries < 1:
		return "--retries must be >= 1"
	case c.Timeout <= 0:
		return "--timeout must be > 0"
	case c.Delay < 0:
		return "--delay must be >= 0"
	}
	return ""
}
