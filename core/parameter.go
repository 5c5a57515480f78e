package core

// Parameter is a raw named initialization parameter as it appears in a tree
// definition. Nodes coerce the text into typed settings in Init.
type Parameter struct {
	Name  string
	Value string
}

// Params is a convenience constructor turning name/value pairs into
// parameters. A trailing name without a value is dropped.
func Params(pairs ...string) []Parameter {
	out := make([]Parameter, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Parameter{Name: pairs[i], Value: pairs[i+1]})
	}
	return out
}
