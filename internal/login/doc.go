// Package login provides session hooks that ask for a user name and
// password before handing the connection to the command shell.
//
// After a failed attempt all input is discarded for a short delay before
// the login prompt is shown again. A successful check records the returned
// user ID on the session; the exit built-in clears it and returns to the
// login prompt.
package login
