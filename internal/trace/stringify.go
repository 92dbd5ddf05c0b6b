package trace

import "fmt"

type stringer interface{ String() string }

func stringify(v any) string {
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
