package jsoncmd

import "encoding/json"

// Encoder renders a finished response tree to a single wire line,
// compact or pretty-printed depending on sys.jp. It implements
// thread.Encoder without thread needing to import jsoncmd's encoding
// details beyond this one method.
type Encoder struct{}

// Encode marshals resp, indenting with two spaces when pretty is set.
func (Encoder) Encode(resp map[string]interface{}, pretty bool) (string, error) {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(resp, "", "  ")
	} else {
		b, err = json.Marshal(resp)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}
