// Package conv provides checked integer conversions and size arithmetic.
//
// Container sizes are computed as element count times stride, and bit
// counts are rounded up to whole words. Both can overflow for hostile or
// mistaken inputs; these helpers turn that into ErrOverflow so that the
// allocation layer can report it as an ordinary allocation failure.
package conv
