// Package feedback renders guidance to the person being captured. The
// controller drives a Presenter with announcements, landmark overlays, and
// toasts; presenters never feed state back into the session.
package feedback
