/*
Package editor contains the editing session of the stave score editor.

A Session owns a score, the selections over it and the allocator of event
IDs. The score is only changed by applying Commands to the session:

	s := editor.NewSession()
	err := s.Apply(editor.Append{Note: stave.DefaultNote, Duration: 4})

Every command either runs to completion or returns an error and leaves the
session as it was. Commands run against a staged copy of the session data,
which replaces the live data only when the command succeeds.

A Session is not safe for concurrent use. It has exactly one writer and the
score and selections it returns are copies.
*/
package editor
