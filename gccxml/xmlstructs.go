package gccxml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// toBool converts a 0|1 attribute into a boolean.
func toBool(v string) bool {
	return v != "" && v != "0"
}

// xmlTree is the root of a GCC-XML document. CastXML writes the same
// layout with --castxml-gccxml.
type xmlTree struct {
	XMLName xml.Name

	Arrays           []*xmlArrayType       `xml:"ArrayType"`
	Classes          []*xmlRecord          `xml:"Class"`
	CvQualifiedTypes []*xmlCvQualifiedType `xml:"CvQualifiedType"`
	ElaboratedTypes  []*xmlElaboratedType  `xml:"ElaboratedType"`
	Enumerations     []*xmlEnumeration     `xml:"Enumeration"`
	Fields           []*xmlField           `xml:"Field"`
	Files            []*xmlFile            `xml:"File"`
	Functions        []*xmlFunction        `xml:"Function"`
	FunctionTypes    []*xmlFunctionType    `xml:"FunctionType"`
	FundamentalTypes []*xmlFundamentalType `xml:"FundamentalType"`
	MethodTypes      []*xmlUnsupportedType `xml:"MethodType"`
	Namespaces       []*xmlNamespace       `xml:"Namespace"`
	OffsetTypes      []*xmlUnsupportedType `xml:"OffsetType"`
	PointerTypes     []*xmlPointerType     `xml:"PointerType"`
	ReferenceTypes   []*xmlUnsupportedType `xml:"ReferenceType"`
	Structs          []*xmlRecord          `xml:"Struct"`
	Typedefs         []*xmlTypedef         `xml:"Typedef"`
	Unimplementeds   []*xmlUnsupportedType `xml:"Unimplemented"`
	Unions           []*xmlRecord          `xml:"Union"`
	Variables        []*xmlVariable        `xml:"Variable"`
}

// location holds the coordinate attributes shared by declarations.
type location struct {
	File     string `xml:"file,attr"`
	Line     string `xml:"line,attr"`
	Location string `xml:"location,attr"`
}

// fileLine returns the file id and line, falling back to the combined
// location attribute ("f1:12").
func (l location) fileLine() (string, int) {
	file, line := l.File, l.Line
	if file == "" && l.Location != "" {
		if i := strings.LastIndexByte(l.Location, ':'); i > 0 {
			file, line = l.Location[:i], l.Location[i+1:]
		}
	}
	n, _ := strconv.Atoi(line)
	return file, n
}

type xmlArgument struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

type xmlEllipsis struct{}

type xmlArrayType struct {
	Id   string `xml:"id,attr"`
	Type string `xml:"type,attr"`
	Min  string `xml:"min,attr"`
	Max  string `xml:"max,attr"`
}

// xmlRecord is a Struct, Union or Class element.
type xmlRecord struct {
	location
	Artificial string `xml:"artificial,attr"`
	Context    string `xml:"context,attr"`
	Id         string `xml:"id,attr"`
	Incomplete string `xml:"incomplete,attr"`
	Members    string `xml:"members,attr"`
	Name       string `xml:"name,attr"`
}

type xmlCvQualifiedType struct {
	Id       string `xml:"id,attr"`
	Type     string `xml:"type,attr"`
	Const    string `xml:"const,attr"`
	Volatile string `xml:"volatile,attr"`
	Restrict string `xml:"restrict,attr"`
}

type xmlElaboratedType struct {
	Id   string `xml:"id,attr"`
	Type string `xml:"type,attr"`
}

type xmlEnumValue struct {
	Init string `xml:"init,attr"`
	Name string `xml:"name,attr"`
}

type xmlEnumeration struct {
	location
	Context string `xml:"context,attr"`
	Id      string `xml:"id,attr"`
	Name    string `xml:"name,attr"`

	EnumValues []xmlEnumValue `xml:"EnumValue"`
}

type xmlField struct {
	location
	Bits    string `xml:"bits,attr"`
	Context string `xml:"context,attr"`
	Id      string `xml:"id,attr"`
	Name    string `xml:"name,attr"`
	Type    string `xml:"type,attr"`
}

type xmlFile struct {
	Id   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xmlFunction struct {
	location
	Context string `xml:"context,attr"`
	Extern  string `xml:"extern,attr"`
	Id      string `xml:"id,attr"`
	Inline  string `xml:"inline,attr"`
	Name    string `xml:"name,attr"`
	Returns string `xml:"returns,attr"`
	Static  string `xml:"static,attr"`

	Arguments []xmlArgument `xml:"Argument"`
	Ellipsis  *xmlEllipsis  `xml:"Ellipsis"`
}

type xmlFunctionType struct {
	Id      string `xml:"id,attr"`
	Returns string `xml:"returns,attr"`

	Arguments []xmlArgument `xml:"Argument"`
	Ellipsis  *xmlEllipsis  `xml:"Ellipsis"`
}

type xmlFundamentalType struct {
	Id   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xmlNamespace struct {
	Context string `xml:"context,attr"`
	Id      string `xml:"id,attr"`
	Members string `xml:"members,attr"`
	Name    string `xml:"name,attr"`
}

type xmlPointerType struct {
	Id   string `xml:"id,attr"`
	Type string `xml:"type,attr"`
}

type xmlTypedef struct {
	location
	Context string `xml:"context,attr"`
	Id      string `xml:"id,attr"`
	Name    string `xml:"name,attr"`
	Type    string `xml:"type,attr"`
}

type xmlVariable struct {
	Id   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// xmlUnsupportedType is any type element that has no C meaning.
type xmlUnsupportedType struct {
	XMLName xml.Name
	Id      string `xml:"id,attr"`
}
