package config

// coalesce returns the first non-nil pointer, keeping "explicitly set"
// information intact for a later ResolveOption call.
func coalesce[T any](explicit, persisted *T) *T {
	if explicit != nil {
		return explicit
	}
	return persisted
}

// MergeSelections combines a command-line override with a module's declared
// selection for a single run. The override is never written back.
//
// Rules: a zero override yields the declared selection (or the default when
// the module declares none). When both name the same kind, each option set
// explicitly on the command line wins over the persisted one. When the
// kinds differ, the override replaces the declared selection wholesale;
// options from a different backend kind are never mixed in.
func MergeSelections(override, persisted Selection) Selection {
	if override.IsZero() {
		if persisted.IsZero() {
			return DefaultSelection()
		}
		return persisted
	}

	if persisted.IsZero() || override.Kind() != persisted.Kind() {
		return override
	}

	switch override.Kind() {
	case KindStencil:
		return Selection{Stencil: &StencilOptions{
			Meta:         coalesce(override.Stencil.Meta, persisted.Stencil.Meta),
			DocTests:     coalesce(override.Stencil.DocTests, persisted.Stencil.DocTests),
			Constructors: coalesce(override.Stencil.Constructors, persisted.Stencil.Constructors),
		}}
	case KindOutline:
		return Selection{Outline: &OutlineOptions{
			Literal:   coalesce(override.Outline.Literal, persisted.Outline.Literal),
			CheckOnly: coalesce(override.Outline.CheckOnly, persisted.Outline.CheckOnly),
		}}
	default:
		return override
	}
}
