package utils

// Or returns the first non-zero value.
func Or[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}

// FilterSlice maps in to out, dropping elements whose mapper returns
// false.
func FilterSlice[In any, Out any](in []In, fn func(In) (Out, bool)) []Out {
	out := make([]Out, 0, len(in))
	for _, v := range in {
		if mapped, ok := fn(v); ok {
			out = append(out, mapped)
		}
	}
	return out
}

func MapSlice[In any, Out any](in []In, fn func(In) Out) []Out {
	out := make([]Out, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
