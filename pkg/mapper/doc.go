// Package mapper copies values between independently defined struct shapes
// by matching exported field names and compatible types.
//
// Matching is best effort: fields without a same-named, compatible
// counterpart are skipped without error, so shapes that only partially
// overlap (an entity and its DTO) map cleanly. A renamed field therefore
// silently stops transferring; callers that need exhaustive coverage should
// supply explicit projection functions instead.
//
// Compatible types are, in order of preference:
//
//   - assignable types
//   - scalars of the same kind (a named int and int)
//   - structs whose exported field names overlap, copied recursively
//   - pointers to any of the above, dereferenced or allocated as needed
//   - slices, arrays and maps of compatible elements, copied element-wise
//
// Field plans are computed once per source and target type pair and cached,
// so the package holds no other state and is safe for concurrent use.
package mapper
