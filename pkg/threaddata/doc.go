// Package threaddata rewrites Fusion thread definition documents for 3D
// printing.
//
// A document is a tree of ThreadType, ThreadSize, Designation and Thread
// elements. The unit is read once per ThreadType and the pitch once per
// Designation; every Thread beneath them has its diameters moved by the
// clearance computed in package adjust. Anything the transformer does not
// model (unknown elements, comments, attributes, ordering) is written back
// untouched.
package threaddata
