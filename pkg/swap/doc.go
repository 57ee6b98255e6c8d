// Package swap moves save data between the active slot and the profile
// archive.
//
// An Engine owns one Strategy, picked once from the configured mode:
//
//   - copy: the slot is a real directory holding a copy of the active
//     profile plus a marker file naming it. Switching archives the slot
//     into the active profile, clears it and copies the next profile in.
//   - link: the slot is a directory link (junction on Windows) to the
//     active profile's archive. Switching repoints the link.
//
// Session drives one interactive run on top of an Engine: it adopts an
// unregistered installation, asks which profile to play, activates it and
// launches the game. Prompts, alerts and the launch go through small
// interfaces so the engine never touches a terminal.
package swap
