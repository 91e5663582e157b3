// MemberClasses synthesis.
package dex

import (
	"sort"
	"strconv"
	"strings"
)

const memberClassesType = "Ldalvik/annotation/MemberClasses;"

// synthesizeMemberClasses adds a dalvik.annotation.MemberClasses annotation
// to every class that has sibling classes named <this>$<suffix> in the
// image. Runs after all classes are decoded.
func synthesizeMemberClasses(classes []*Class) {
	for _, cls := range classes {
		base := stripDescriptor(cls.Name)
		if base == "" {
			continue
		}
		prefix := base + "$"

		var members []string
		for _, other := range classes {
			name := stripDescriptor(other.Name)
			if name != base && strings.HasPrefix(name, prefix) {
				members = append(members, "L"+name+";")
			}
		}
		if len(members) == 0 {
			continue
		}

		sort.SliceStable(members, func(i, j int) bool {
			return memberLess(members[i], members[j])
		})

		var b strings.Builder
		b.WriteString("{\n")
		for i, m := range members {
			b.WriteString("        ")
			b.WriteString(m)
			if i < len(members)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString("    }")

		cls.Annotations = append(cls.Annotations, Annotation{
			Type:       memberClassesType,
			Visibility: VisibilitySystem,
			Elements:   []AnnotationElement{{Name: "value", Value: b.String()}},
		})
	}
}

func stripDescriptor(desc string) string {
	if len(desc) > 2 && desc[0] == 'L' && desc[len(desc)-1] == ';' {
		return desc[1 : len(desc)-1]
	}
	return ""
}

// memberLess orders member-class descriptors by the suffix after the last
// '$': numeric suffixes first in ascending numeric order, then purely
// alphabetic ones, then mixed, each group lexicographic.
func memberLess(a, b string) bool {
	sa, sb := memberSuffix(a), memberSuffix(b)
	ra, rb := suffixRank(sa), suffixRank(sb)
	if ra != rb {
		return ra < rb
	}
	if ra == 0 {
		na, _ := strconv.Atoi(sa)
		nb, _ := strconv.Atoi(sb)
		return na < nb
	}
	return sa < sb
}

func memberSuffix(desc string) string {
	s := strings.TrimSuffix(desc, ";")
	if i := strings.LastIndexByte(s, '$'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func suffixRank(s string) int {
	digits, letters := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] >= 'a' && s[i] <= 'z' || s[i] >= 'A' && s[i] <= 'Z':
			letters++
		}
	}
	switch {
	case len(s) > 0 && digits == len(s):
		return 0
	case len(s) > 0 && letters == len(s):
		return 1
	default:
		return 2
	}
}
