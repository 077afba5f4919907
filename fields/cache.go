package fields

import (
	"reflect"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Info describes one exported field of a struct type.
type Info struct {
	Name     string
	GoName   string
	Type     reflect.Type
	Index    int
	IsStruct bool
}

type cache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]Info
}

func newCache() *cache {
	return &cache{fields: make(map[reflect.Type][]Info)}
}

func (c *cache) get(t reflect.Type) []Info {
	c.mu.RLock()
	cached, ok := c.fields[t]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.fields[t]; ok {
		return cached
	}

	var infos []Info
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Tag.Get("field")
			if name == "-" {
				continue
			}
			if name == "" {
				name = lowerFirst(field.Name)
			}
			infos = append(infos, Info{
				Name:     name,
				GoName:   field.Name,
				Type:     field.Type,
				Index:    i,
				IsStruct: field.Type.Kind() == reflect.Struct,
			})
		}
	}

	c.fields[t] = infos
	return infos
}

// lookup finds a field by its accessor name or its Go name.
func (c *cache) lookup(t reflect.Type, name string) (Info, bool) {
	for _, info := range c.get(t) {
		if info.Name == name || info.GoName == name {
			return info, true
		}
	}
	return Info{}, false
}

var shared = newCache()

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	// Keep acronyms like COMOffset readable: comOffset.
	upper := 0
	for _, c := range s {
		if !unicode.IsUpper(c) {
			break
		}
		upper++
	}
	if upper > 1 && upper < len(s) {
		return toLower(s[:upper-1]) + s[upper-1:]
	}
	if upper > 1 {
		return toLower(s)
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func toLower(s string) string {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return string(out)
}
