package fancy

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
)

// Tree returns a new tree with common styling applied
func Tree() *tree.Tree {
	t := tree.New()
	t.EnumeratorStyle(BranchStyle)
	t.Enumerator(tree.RoundedEnumerator)
	return t
}

// Section creates a styled section node for a parent tree.
func Section(title string) *tree.Tree {
	t := Tree()
	t.Root(HeaderStyle.Render(title))
	return t
}

// KV renders a "key: value" leaf.
func KV(key string, value any) string {
	return fmt.Sprintf("%s: %s", key, ValueText(fmt.Sprint(value)))
}
