package param

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.SetAliasTag("json")
	return d
}()

// Binding bind request params into v: the query string for reads, the json
// body for everything else.
func Binding(r *http.Request, v interface{}) error {
	if r.Method == http.MethodGet || r.Method == http.MethodDelete {
		return decoder.Decode(v, r.URL.Query())
	}

	return json.NewDecoder(r.Body).Decode(v)
}
