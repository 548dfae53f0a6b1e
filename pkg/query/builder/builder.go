// Package builder drives the editing of a clause list from keyboard,
// mouse and focus events. It owns the transient cursor state only; the
// clause list stays with the host and is changed through actions.
package builder

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bascanada/seclog/pkg/log"
	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/ty"
)

// Key is a navigation key the builder reacts to. Printable input goes
// through Builder.Input instead.
type Key int

const (
	KeyDown Key = iota
	KeyUp
	KeyTab
	KeyEnter
	KeyBackspace
)

// State of the clause input being edited.
type State string

const (
	StateIdle           State = "idle"
	StateEditing        State = "editing"
	StateSuggestionOpen State = "suggestion-open"
)

// Dispatcher gives access to the host clause list.
type Dispatcher interface {
	Clauses() []query.Clause
	Dispatch(action query.Action)
}

// Callbacks are invoked so the host can synchronize other views.
type Callbacks struct {
	OnSearchFilterFocus  func(c query.Clause)
	OnSearchBuilderFocus func()
	OnSearchBuilderBlur  func()
}

// Options configure a Builder.
type Options struct {
	Store  Dispatcher
	Fields []query.Field
	// Assets is handed untouched to the field suggesters and validators.
	Assets any
	// NewKey generates keys of created clauses, query.NewKey by default.
	NewKey query.KeyFunc
	Callbacks
}

// CursorState is the transient state of one builder. It is reset when
// the builder loses focus.
type CursorState struct {
	DropdownOpen        bool
	ActiveClauseKey     string
	Position            query.Position
	ArrayIndex          int
	ActiveSuggestionKey string
	Caret               int
}

// Builder is the editing controller of the search bar.
type Builder struct {
	opts  Options
	state CursorState
}

// New creates a builder and makes sure the list has a primary clause.
func New(opts Options) *Builder {
	if opts.NewKey == nil {
		opts.NewKey = query.NewKey
	}
	b := &Builder{opts: opts}
	b.reset()
	if _, ok := query.Primary(opts.Store.Clauses()); !ok {
		opts.Store.Dispatch(query.Create{Key: opts.NewKey()})
	}
	return b
}

func (b *Builder) reset() {
	b.state = CursorState{Position: query.PositionField, ArrayIndex: query.NoIndex}
}

// Cursor returns a copy of the cursor state.
func (b *Builder) Cursor() CursorState {
	return b.state
}

// Clauses returns the host clause list.
func (b *Builder) Clauses() []query.Clause {
	return b.opts.Store.Clauses()
}

// Fields returns the catalog the builder suggests from.
func (b *Builder) Fields() []query.Field {
	return b.opts.Fields
}

// Assets returns the asset cache handed to field callbacks.
func (b *Builder) Assets() any {
	return b.opts.Assets
}

// SetAssets swaps the asset cache, used when the host reloads it.
func (b *Builder) SetAssets(assets any) {
	b.opts.Assets = assets
}

// State returns the state of the clause input under edit.
func (b *Builder) State() State {
	if b.state.ActiveClauseKey == "" {
		return StateIdle
	}
	if b.state.DropdownOpen && len(b.Suggestions()) > 0 {
		return StateSuggestionOpen
	}
	return StateEditing
}

// Clause returns the clause being edited.
func (b *Builder) Clause() (query.Clause, bool) {
	if b.state.ActiveClauseKey == "" {
		return query.Clause{}, false
	}
	return query.Find(b.opts.Store.Clauses(), b.state.ActiveClauseKey)
}

// Text returns the rendered text of the clause being edited.
func (b *Builder) Text() string {
	c, ok := b.Clause()
	if !ok {
		return ""
	}
	return query.Serialize(c)
}

func (b *Builder) cursor() query.Cursor {
	return query.Cursor{Position: b.state.Position, ArrayIndex: b.state.ArrayIndex}
}

// Suggestions returns the candidates of the token under the caret.
func (b *Builder) Suggestions() []query.Candidate {
	c, ok := b.Clause()
	if !ok {
		return nil
	}
	return query.Suggest(c, b.cursor(), b.opts.Fields, b.opts.Assets)
}

// Active returns the active suggestion.
func (b *Builder) Active() (query.Candidate, bool) {
	return query.Active(b.Suggestions(), b.state.ActiveSuggestionKey)
}

// Ghost returns the inline completion shown after the caret. It is only
// offered while the dropdown is open and the caret ends the token.
func (b *Builder) Ghost() string {
	if !b.state.DropdownOpen {
		return ""
	}
	c, ok := b.Clause()
	if !ok {
		return ""
	}
	active, ok := b.Active()
	if !ok {
		return ""
	}
	if b.state.Caret != b.tokenEnd(c) {
		return ""
	}
	return query.GhostSuffix(c, b.cursor(), active)
}

// tokenEnd is the offset right after the token, or array element, under
// the caret.
func (b *Builder) tokenEnd(c query.Clause) int {
	if b.state.Position == query.PositionValue && b.state.ArrayIndex >= 0 {
		v, _ := c.Value.Get()
		if b.state.ArrayIndex < len(v.Items) {
			return query.ElementStart(c, b.state.ArrayIndex) + utf8.RuneCountInString(v.Items[b.state.ArrayIndex])
		}
	}
	return query.TokenEnd(c, b.state.Position)
}

// Validation returns the validation error of the clause being edited.
func (b *Builder) Validation() *query.ValidationError {
	c, ok := b.Clause()
	if !ok {
		return nil
	}
	return b.Validate(c)
}

// Validate checks c against the builder catalog.
func (b *Builder) Validate(c query.Clause) *query.ValidationError {
	return query.Validate(b.opts.Fields, c, b.opts.Assets)
}

// FocusBuilder opens the dropdown, editing the primary clause when no
// clause is active yet.
func (b *Builder) FocusBuilder() {
	b.state.DropdownOpen = true
	if b.state.ActiveClauseKey == "" {
		if p, ok := query.Primary(b.opts.Store.Clauses()); ok {
			b.focus(p)
		}
	}
	if b.opts.OnSearchBuilderFocus != nil {
		b.opts.OnSearchBuilderFocus()
	}
}

// FocusClause moves the edit to the clause with key.
func (b *Builder) FocusClause(key string) {
	c, ok := query.Find(b.opts.Store.Clauses(), key)
	if !ok {
		return
	}
	b.state.DropdownOpen = true
	b.focus(c)
	if b.opts.OnSearchFilterFocus != nil {
		b.opts.OnSearchFilterFocus(c)
	}
}

func (b *Builder) focus(c query.Clause) {
	if b.state.ActiveClauseKey != c.Key {
		b.state.ActiveSuggestionKey = ""
	}
	b.state.ActiveClauseKey = c.Key
	b.moveCaret(c, utf8.RuneCountInString(query.Serialize(c)))
}

// BlurOutside closes the dropdown and drops the cursor state.
func (b *Builder) BlurOutside() {
	b.reset()
	if b.opts.OnSearchBuilderBlur != nil {
		b.opts.OnSearchBuilderBlur()
	}
}

// SetCaret follows caret moves that do not change the text.
func (b *Builder) SetCaret(caret int) {
	c, ok := b.Clause()
	if !ok {
		return
	}
	b.moveCaret(c, caret)
}

func (b *Builder) moveCaret(c query.Clause, caret int) {
	length := utf8.RuneCountInString(query.Serialize(c))
	if caret > length {
		caret = length
	}
	if caret < 0 {
		caret = 0
	}
	cur := query.Locate(c, caret)
	b.state.Caret = caret
	b.state.Position = cur.Position
	b.state.ArrayIndex = cur.ArrayIndex
}

// Input replaces the text of the clause being edited. The text is parsed
// back into the clause and the caret is mapped onto its rendering.
func (b *Builder) Input(text string, caret int) {
	c, ok := b.Clause()
	if !ok {
		return
	}
	patch := query.Parse(text, c.Key)
	b.opts.Store.Dispatch(query.Update{Patch: patch})

	updated, ok := b.Clause()
	if !ok {
		return
	}
	b.state.DropdownOpen = true
	b.moveCaret(updated, renderedCaret(text, caret, updated))
}

// renderedCaret maps a caret in the raw text onto the rendering of the
// parsed clause. Array elements are trimmed and joined back with the
// array separator, so a caret inside an array value keeps its element
// and its offset in the element.
func renderedCaret(raw string, caret int, c query.Clause) int {
	runes := []rune(raw)
	if caret >= len(runes) {
		return utf8.RuneCountInString(query.Serialize(c))
	}
	v, ok := c.Value.Get()
	start := query.TokenStart(c, query.PositionValue)
	if !ok || !v.Array || caret < start {
		return caret
	}

	before := string(runes[start:caret])
	idx := strings.Count(before, ",")
	piece := before[strings.LastIndex(before, ",")+1:]
	offset := utf8.RuneCountInString(strings.TrimLeftFunc(piece, unicode.IsSpace))
	if idx < len(v.Items) {
		offset = min(offset, utf8.RuneCountInString(v.Items[idx]))
	}
	return query.ElementStart(c, idx) + offset
}

// Key handles a navigation key. It returns false when the key is left to
// the text input, Backspace on a non empty clause for instance.
func (b *Builder) Key(k Key) bool {
	c, ok := b.Clause()
	if !ok {
		return false
	}

	switch k {
	case KeyDown, KeyUp:
		cands := b.Suggestions()
		if len(cands) == 0 {
			return false
		}
		delta := 1
		if k == KeyUp {
			delta = -1
		}
		b.state.DropdownOpen = true
		b.state.ActiveSuggestionKey = query.Cycle(cands, b.state.ActiveSuggestionKey, delta)
		return true

	case KeyTab:
		return b.applyActive()

	case KeyEnter:
		if b.atEnd(c) && hasValue(c) {
			b.finalize()
			return true
		}
		return b.applyActive()

	case KeyBackspace:
		if !c.Primary() || query.Serialize(c) != "" {
			return false
		}
		key := query.ResolveDeleteKey(b.opts.Store.Clauses(), query.DeleteLast)
		if key == "" {
			return true
		}
		b.opts.Store.Dispatch(query.Delete{Key: key})
		return true
	}
	return false
}

// ClickSuggestion applies the candidate with key like Tab does. A value
// applied to an array keeps the edit on the clause, a scalar value then
// finalizes the clause as Enter would.
func (b *Builder) ClickSuggestion(key string) {
	var cand query.Candidate
	found := false
	for _, c := range b.Suggestions() {
		if c.Key == key {
			cand, found = c, true
			break
		}
	}
	if !found {
		return
	}

	position := b.state.Position
	b.apply(cand)
	if position != query.PositionValue {
		return
	}

	c, ok := b.Clause()
	if !ok {
		return
	}
	if v, _ := c.Value.Get(); v.Array {
		b.FocusClause(c.Key)
		return
	}
	b.finalize()
}

func (b *Builder) atEnd(c query.Clause) bool {
	return b.state.Caret >= utf8.RuneCountInString(query.Serialize(c))
}

func hasValue(c query.Clause) bool {
	v, ok := c.Value.Get()
	return ok && !v.Empty()
}

func (b *Builder) applyActive() bool {
	cand, ok := b.Active()
	if !ok {
		return false
	}
	b.apply(cand)
	return true
}

// apply writes cand into the token under the caret and moves the caret
// after it.
func (b *Builder) apply(cand query.Candidate) {
	c, ok := b.Clause()
	if !ok {
		return
	}
	patch := query.Clause{Key: c.Key}
	next := b.state.Position

	switch b.state.Position {
	case query.PositionField:
		patch.Field = ty.OptWrap(cand.Key)
		if !c.Expression.Defined() {
			patch.Expression = ty.OptWrap("")
		}
		next = query.PositionExpression

	case query.PositionExpression:
		patch.Expression = ty.OptWrap(cand.Key)
		if v, ok := c.Value.Get(); ok {
			patch.Value = ty.OptWrap(query.CoerceValue(cand.Key, v))
		} else {
			patch.Value = ty.OptWrap(query.CoerceValue(cand.Key, query.Scalar("")))
		}
		next = query.PositionValue

	case query.PositionValue:
		patch.Value = ty.OptWrap(b.applyValue(c, cand))
	}

	b.opts.Store.Dispatch(query.Update{Patch: patch})
	b.state.ActiveSuggestionKey = ""

	updated, ok := b.Clause()
	if !ok {
		return
	}
	b.moveCaret(updated, b.caretAfter(updated, next))
}

// applyValue returns the value of c once cand is written in the element
// under edit. A fresh empty element is opened when more values can be
// picked after this one.
func (b *Builder) applyValue(c query.Clause, cand query.Candidate) query.Value {
	v, _ := c.Value.Get()
	if !v.Array {
		return query.Scalar(cand.Key)
	}

	req := query.NewValueRequest(c, b.cursor())
	items := append([]string{}, v.Items...)
	idx := req.ArrayIndex
	if cand.ArrayIndex >= 0 && cand.ArrayIndex < len(items) {
		idx = cand.ArrayIndex
	}
	if idx < 0 || idx >= len(items) {
		items = append(items, cand.Key)
		idx = len(items) - 1
	} else {
		items[idx] = cand.Key
	}

	if idx == len(items)-1 && b.moreValuesExpected(c, items) {
		items = append(items, "")
	}
	return query.Array(items...)
}

func (b *Builder) moreValuesExpected(c query.Clause, items []string) bool {
	probe := c
	probe.Value = ty.OptWrap(query.Array(append(append([]string{}, items...), "")...))
	cur := query.Cursor{Position: query.PositionValue, ArrayIndex: len(items)}
	return len(query.Suggest(probe, cur, b.opts.Fields, b.opts.Assets)) > 0
}

// caretAfter places the caret at the end of slot p, or of the array
// element that was just written.
func (b *Builder) caretAfter(c query.Clause, p query.Position) int {
	if p != query.PositionValue {
		return query.TokenEnd(c, p)
	}
	v, _ := c.Value.Get()
	if !v.Array || b.state.ArrayIndex < 0 || b.state.ArrayIndex >= len(v.Items)-1 {
		return query.TokenEnd(c, p)
	}
	idx := b.state.ArrayIndex
	if v.Items[len(v.Items)-1] == "" && idx == len(v.Items)-2 {
		return query.TokenEnd(c, p)
	}
	return query.ElementStart(c, idx) + utf8.RuneCountInString(v.Items[idx])
}

// finalize commits the clause being edited when it is valid: the primary
// clause spawns a new primary, other clauses hand the focus back to the
// primary one.
func (b *Builder) finalize() bool {
	c, ok := b.Clause()
	if !ok {
		return false
	}
	if err := b.Validate(c); err != nil {
		log.Debug("clause %s not finalized: %v", c.Key, err)
		return false
	}

	if c.Primary() {
		key := b.opts.NewKey()
		b.opts.Store.Dispatch(query.Create{Key: key})
		b.state.ActiveSuggestionKey = ""
		b.state.ActiveClauseKey = key
		b.state.Caret = 0
		b.state.Position = query.PositionField
		b.state.ArrayIndex = query.NoIndex
		return true
	}

	if p, ok := query.Primary(b.opts.Store.Clauses()); ok {
		b.FocusClause(p.Key)
	}
	return true
}
