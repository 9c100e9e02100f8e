// Package navigator implements the drill-down state machine over a layer
// catalog.
//
// Apply is the pure transition function (State, Op) -> (State, error).
// Navigator wraps one State, commits accepted transitions and answers the
// read-only queries the presentation layer renders from: current layer,
// breadcrumbs, field partition, terminal byte width, selection and packet
// layout.
//
// Transitions:
//   - Descend grows the history by exactly one entry through an
//     encapsulating field of the current layer.
//   - SelectField selects a terminal field, or descends when the field is
//     encapsulating.
//   - JumpTo truncates the history at the first occurrence of a layer.
//   - GoBack drops the last history entry; it fails at the root.
//
// Every accepted layer transition clears the selection.
package navigator
