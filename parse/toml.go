package parse

import (
	"io"

	"github.com/dzjyyds666/tq/parse/toml"
)

// ParseToml parses TOML input from r and returns a root Table.
func ParseToml(r io.Reader) (*toml.Table, error) {
	return toml.ParseReader(r)
}
