package schema

var (
	stringType  = &Type{Name: "String", Kind: TypeKindScalar, Description: "UTF-8 character sequence."}
	intType     = &Type{Name: "Int", Kind: TypeKindScalar, Description: "Signed 32-bit integer."}
	floatType   = &Type{Name: "Float", Kind: TypeKindScalar, Description: "Signed double-precision floating-point value."}
	booleanType = &Type{Name: "Boolean", Kind: TypeKindScalar, Description: "true or false."}
	idType      = &Type{Name: "ID", Kind: TypeKindScalar, Description: "Unique identifier, serialized as a string."}
)

// IsBuiltinScalar reports whether name is one of the five standard scalars.
func IsBuiltinScalar(name string) bool {
	switch name {
	case "String", "Int", "Float", "Boolean", "ID":
		return true
	}
	return false
}

func addBuiltins(s *Schema) {
	s.Types["String"] = stringType
	s.Types["Int"] = intType
	s.Types["Float"] = floatType
	s.Types["Boolean"] = booleanType
	s.Types["ID"] = idType
}
