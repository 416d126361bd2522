// Package poses defines the ordered catalog of capture poses. The catalog is
// immutable after construction; its order drives session progression and each
// spec's description is the authoritative target sent to the analysis
// service verbatim.
package poses
