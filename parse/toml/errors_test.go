package toml

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestForbiddenControlCharacters(t *testing.T) {
	convey.Convey("NUL, DEL, and bare CR are rejected before parsing", t, func() {
		for _, input := range [][]byte{
			{'a', ' ', '=', ' ', '1', 0x00},
			{'a', ' ', '=', ' ', '1', 0x7F},
			[]byte("a = 1\rb = 2"),
			{'a', 0x01, '=', '1'},
		} {
			_, err := Parse(input)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "Control characters")
		}
	})

	convey.Convey("tab, LF, and CRLF are permitted", t, func() {
		_, err := Parse([]byte("a = 1\r\nb\t= 2\n"))
		convey.So(err, convey.ShouldBeNil)
	})
}

func TestStickyFirstError(t *testing.T) {
	convey.Convey("the first recorded error wins", t, func() {
		// Both lines are malformed; only the first is reported.
		_, err := Parse([]byte("a = 09\nb = \"\\q\""))
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "Leading zero")
	})

	convey.Convey("the tree is discarded on error", t, func() {
		root, err := Parse([]byte("good = 1\nbad = @"))
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(root, convey.ShouldBeNil)
	})
}

func TestUnterminatedStructures(t *testing.T) {
	convey.Convey("unclosed delimiters report the expectation", t, func() {
		cases := map[string]string{
			`x = [1, 2`:   `Expected ',' or ']' in array`,
			`x = [1,`:     `Expected ']' but found 'EOF'`,
			`x = { a = 1`: `Expected ',' but found 'EOF'`,
			`[a`:          `Expected ']' but found 'EOF'`,
			`x = "open`:   `Expected '"' but found 'EOF'`,
			`x = 'open`:   `Expected ''' but found 'EOF'`,
		}
		for src, want := range cases {
			_, err := Parse([]byte(src))
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldEqual, want)
		}
	})
}

func TestUnexpectedInput(t *testing.T) {
	convey.Convey("unrecognizable value bytes", t, func() {
		_, err := Parse([]byte(`x = @`))
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "Unexpected character in value: @")
	})

	convey.Convey("missing value at end of input", t, func() {
		_, err := Parse([]byte(`x =`))
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "Unexpected end of input")
	})

	convey.Convey("missing equals sign", t, func() {
		_, err := Parse([]byte("x 1"))
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "Expected '='")
	})

	convey.Convey("empty table header", t, func() {
		_, err := Parse([]byte("[]"))
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestParserTerminatesOnMalformedInput(t *testing.T) {
	convey.Convey("garbage input never loops", t, func() {
		inputs := []string{
			"=", "= = =", "[", "[[", "]", "....", "a..b = 1",
			"{", "}", "# only a comment", "x = [,]", "\"",
		}
		for _, src := range inputs {
			// Parse must return; whether it errors depends on the input.
			_, _ = Parse([]byte(src))
		}
		convey.So(true, convey.ShouldBeTrue)
	})
}
