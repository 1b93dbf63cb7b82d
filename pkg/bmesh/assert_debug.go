//go:build meshdebug

package bmesh

const debugAssert = true
