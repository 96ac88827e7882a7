package diff

import "github.com/sdejongh/dirmirror/pkg/storage"

// namePair holds the two sides of one name in a directory pair. A nil side
// means the name is absent there.
type namePair struct {
	name   string
	source *storage.FileInfo
	target *storage.FileInfo
}

// pair merges two name-sorted listings into one name-sorted sequence
func pair(source, target []storage.FileInfo) []namePair {
	pairs := make([]namePair, 0, len(source)+len(target))
	i, j := 0, 0
	for i < len(source) || j < len(target) {
		switch {
		case j >= len(target) || (i < len(source) && source[i].Name < target[j].Name):
			pairs = append(pairs, namePair{name: source[i].Name, source: &source[i]})
			i++
		case i >= len(source) || target[j].Name < source[i].Name:
			pairs = append(pairs, namePair{name: target[j].Name, target: &target[j]})
			j++
		default:
			pairs = append(pairs, namePair{name: source[i].Name, source: &source[i], target: &target[j]})
			i++
			j++
		}
	}
	return pairs
}
