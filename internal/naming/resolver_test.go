package naming

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWithOverride(t *testing.T) {
	tests := []struct {
		name     string
		override MemberOverride
		raw      string
		want     string
	}{
		{name: "force camel", override: MemberOverride{ForceCamel: true}, raw: "GetName", want: "getName"},
		{name: "force pascal", override: MemberOverride{ForcePascal: true}, raw: "getName", want: "GetName"},
		{name: "camel wins over pascal", override: MemberOverride{ForceCamel: true, ForcePascal: true}, raw: "GetName", want: "getName"},
		{name: "no flags keeps raw", override: MemberOverride{}, raw: "GetName", want: "GetName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveWithOverride(tt.override, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveContextPath(t *testing.T) {
	ctx := NewExportContext(GlobalPolicy{CamelCaseMethods: true, CamelCaseProperties: false})
	assert.NotEqual(t, uuid.Nil, ctx.RunID)

	got, err := ResolveMethodName(ctx, "GetUserName")
	require.NoError(t, err)
	assert.Equal(t, "getUserName", got)

	got, err = ResolvePropertyName(ctx, "UserName")
	require.NoError(t, err)
	assert.Equal(t, "UserName", got)

	// the context path never produces pascal casing
	ctx = NewExportContext(GlobalPolicy{CamelCaseProperties: true})
	got, err = ResolvePropertyName(ctx, "userName")
	require.NoError(t, err)
	assert.Equal(t, "userName", got)
}

func TestResolveContextPathEmpty(t *testing.T) {
	ctx := NewExportContext(GlobalPolicy{CamelCaseMethods: true})
	_, err := ResolveMethodName(ctx, "")
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = ResolveWithOverride(MemberOverride{ForcePascal: true}, "")
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestResolverPrecedence(t *testing.T) {
	key := MemberKey{Type: "User", Member: "GetName"}
	r := Resolver{
		Context:   NewExportContext(GlobalPolicy{CamelCaseMethods: false}),
		Overrides: Overrides{key: {ForceCamel: true}},
	}

	got, err := r.Method(key, "GetName")
	require.NoError(t, err)
	assert.Equal(t, "getName", got, "override must win over global policy")

	got, err = r.Method(MemberKey{Type: "User", Member: "GetAge"}, "GetAge")
	require.NoError(t, err)
	assert.Equal(t, "GetAge", got)
}

func TestResolverNoOpOverrideShadowsGlobal(t *testing.T) {
	key := MemberKey{Type: "User", Member: "UserName"}
	r := Resolver{
		Context:   NewExportContext(GlobalPolicy{CamelCaseMethods: true, CamelCaseProperties: true}),
		Overrides: Overrides{key: {}},
	}
	got, err := r.Property(key, "UserName")
	require.NoError(t, err)
	assert.Equal(t, "UserName", got)

	got, err = r.Property(MemberKey{Type: "User", Member: "Email"}, "Email")
	require.NoError(t, err)
	assert.Equal(t, "email", got)
}

func TestResolverEndToEnd(t *testing.T) {
	r := Resolver{Context: NewExportContext(GlobalPolicy{CamelCaseMethods: true, CamelCaseProperties: false})}

	prop, err := r.Property(MemberKey{Type: "User", Member: "UserName"}, "UserName")
	require.NoError(t, err)
	assert.Equal(t, "UserName", prop)

	method, err := r.Method(MemberKey{Type: "User", Member: "GetUserName"}, "GetUserName")
	require.NoError(t, err)
	assert.Equal(t, "getUserName", method)
}

func TestOverridesMerge(t *testing.T) {
	a := MemberKey{Type: "T", Member: "A"}
	b := MemberKey{Type: "T", Member: "B"}
	base := Overrides{a: {ForceCamel: true}, b: {ForceCamel: true}}
	merged := base.Merge(Overrides{b: {ForcePascal: true}})

	assert.Equal(t, MemberOverride{ForceCamel: true}, merged[a])
	assert.Equal(t, MemberOverride{ForcePascal: true}, merged[b])
	assert.Equal(t, MemberOverride{ForceCamel: true}, base[b], "Merge must not modify the receiver")
	assert.Equal(t, "T.A", a.String())
	assert.Equal(t, "A", MemberKey{Member: "A"}.String())
}

func TestPolicyParse(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"", AsIs}, {"as-is", AsIs}, {"camel", Camel}, {"CamelCase", Camel}, {"pascal", Pascal},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParsePolicy("snake")
	require.Error(t, err)

	var p Policy
	require.NoError(t, p.UnmarshalText([]byte("pascal")))
	assert.Equal(t, Pascal, p)
	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "pascal", string(text))
	assert.Equal(t, "Policy(9)", Policy(9).String())
	assert.Equal(t, MemberOverride{ForcePascal: true}, OverrideFor(Pascal))
	assert.Equal(t, MemberOverride{}, OverrideFor(AsIs))
}

func TestResolverConcurrentRuns(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := Resolver{Context: NewExportContext(GlobalPolicy{CamelCaseMethods: i%2 == 0})}
			name, err := r.Method(MemberKey{Type: "T", Member: "DoWork"}, "DoWork")
			if err != nil {
				results[i] = fmt.Sprintf("error: %v", err)
				return
			}
			results[i] = name
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		want := "DoWork"
		if i%2 == 0 {
			want = "doWork"
		}
		assert.Equal(t, want, got, "run %d", i)
	}
}
