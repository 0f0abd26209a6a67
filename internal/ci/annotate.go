package ci

import (
	"fmt"
	"io"
	"strings"
)

var commandEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// Annotate writes a workflow command such as ::error:: so the message shows
// up on the run summary. level is error, warning or notice.
func Annotate(w io.Writer, level, msg string) {
	_, _ = fmt.Fprintf(w, "::%s::%s\n", level, commandEscaper.Replace(msg))
}
