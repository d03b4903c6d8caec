package metamorpheus

import "strings"

// SanitizeName rewrites " of " to " off ". MetaMorpheus drops modifications
// whose name contains " of ", so every place that emits a modification name
// goes through here.
func SanitizeName(name string) string {
	return strings.ReplaceAll(name, " of ", " off ")
}
