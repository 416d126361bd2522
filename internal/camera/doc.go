// Package camera checks capture-device availability and watches udev
// netlink events for camera attach/detach. The session runner uses it for
// the camera prerequisite; the controller itself only ever asks the frame
// source to start and stop.
package camera
