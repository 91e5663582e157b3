package dex

import "testing"

func TestFormatAccessFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags uint32
		ctx   FlagContext
		want  string
	}{
		{"public final class", AccPublic | AccFinal, FlagClass, "public final "},
		{"interface before abstract", AccPublic | AccInterface | AccAbstract, FlagClass, "public interface abstract "},
		{"annotation class", AccPublic | AccInterface | AccAbstract | AccAnnotation, FlagClass, "public interface abstract annotation "},
		{"field volatile", AccPrivate | AccVolatile, FlagField, "private volatile "},
		{"field transient", AccTransient, FlagField, "transient "},
		{"method bridge varargs", AccPublic | AccBridge | AccVarargs | AccSynthetic, FlagMethod, "public bridge varargs synthetic "},
		{"constructor", AccPublic | AccConstructor, FlagMethod, "public constructor "},
		{"declared synchronized", AccDeclaredSynchronized, FlagMethod, "declared-synchronized "},
		{"none", 0, FlagClass, ""},
	}
	for _, tt := range tests {
		if got := FormatAccessFlags(tt.flags, tt.ctx); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
