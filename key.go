package mediate

import "reflect"

// Key is the stable identity of a message type. It is comparable and is
// the map key for every handler and pipeline lookup. Two messages share
// a Key exactly when they are the same Go type.
type Key struct {
	rt reflect.Type
}

// KeyOf returns the Key for the message type T.
func KeyOf[T any]() Key {
	return Key{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// IsZero reports whether k identifies no type.
func (k Key) IsZero() bool { return k.rt == nil }

// Name returns the bare type name without package qualification.
// Anonymous types fall back to their type string.
func (k Key) Name() string {
	if k.rt == nil {
		return ""
	}
	if n := k.rt.Name(); n != "" {
		return n
	}
	return k.rt.String()
}

func (k Key) String() string {
	if k.rt == nil {
		return "<none>"
	}
	if pkg := k.rt.PkgPath(); pkg != "" {
		return pkg + "." + k.rt.Name()
	}
	return k.rt.String()
}

// Kind tags the shape of a registered message.
type Kind uint8

const (
	KindCommand Kind = iota + 1
	KindNotification
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindNotification:
		return "notification"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Profile is the view of a registered command that hook scopes match
// against. Scopes never see the command value itself, only its identity.
type Profile struct {
	key  Key
	kind Kind
}

// Key returns the command's identity.
func (p Profile) Key() Key { return p.key }

// Kind returns the message shape. Pipelines apply to commands only, so
// scopes currently always observe KindCommand.
func (p Profile) Kind() Kind { return p.kind }

// Name returns the command's bare type name.
func (p Profile) Name() string { return p.key.Name() }

// handlerName names a handler for diagnostics, dereferencing pointers so
// *FooHandler and FooHandler read the same.
func handlerName(h any) string {
	t := reflect.TypeOf(h)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	if n := t.Name(); n != "" {
		if pkg := t.PkgPath(); pkg != "" {
			return pkg + "." + n
		}
		return n
	}
	return t.String()
}
