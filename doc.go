/*
Package stave contains the data model of the stave score editor.

A Score is the timeline: an ordered set of Events, each one sounding Note with
a start position and a duration measured in Pulses. Selections are begin/end
ranges over the timeline. The editor package owns a Score together with its
Selections and applies edit commands to them; this package only defines the
values and the operations that keep them ordered.

Export projects a Score into measures, staves and layers of notated events,
which is what the mei package writes out for an engraving renderer.
*/
package stave
