/*
Package ply streams the vertices of PLY point clouds.

ParseHeader reads the header and leaves the reader at the first byte of the
body. LocateFields maps the vertex properties to position and color roles,
and NewVertexReader returns a pull based decoder for the body in whatever
encoding the header declares (ascii, binary_little_endian or
binary_big_endian). Vertices are decoded one at a time, so clouds of any size
are read in constant memory.

Only scalar vertex properties are supported. Elements declared before the
vertex element are skipped, elements after it are never read.
*/
package ply
