package export

import "encoding/xml"

// --- assessment document ---

type questestinterop struct {
	XMLName        xml.Name   `xml:"questestinterop"`
	Xmlns          string     `xml:"xmlns,attr"`
	XmlnsXSI       string     `xml:"xmlns:xsi,attr"`
	SchemaLocation string     `xml:"xsi:schemaLocation,attr"`
	Assessment     assessment `xml:"assessment"`
}

type assessment struct {
	Ident   string  `xml:"ident,attr"`
	Title   string  `xml:"title,attr"`
	Section section `xml:"section"`
}

type section struct {
	Ident string `xml:"ident,attr"`
	Items []item `xml:"item"`
}

type item struct {
	Ident        string         `xml:"ident,attr"`
	Title        string         `xml:"title,attr"`
	Metadata     []metaField    `xml:"itemmetadata>qtimetadata>qtimetadatafield"`
	Presentation presentation   `xml:"presentation"`
	Processing   resprocessing  `xml:"resprocessing"`
	Feedback     []itemFeedback `xml:"itemfeedback"`
}

type metaField struct {
	Label string `xml:"fieldlabel"`
	Entry string `xml:"fieldentry"`
}

type presentation struct {
	Material material    `xml:"material"`
	Response responseLid `xml:"response_lid"`
}

type material struct {
	Text mattext `xml:"mattext"`
}

type mattext struct {
	TextType string `xml:"texttype,attr"`
	Text     string `xml:",chardata"`
}

type responseLid struct {
	Ident       string       `xml:"ident,attr"`
	Cardinality string       `xml:"rcardinality,attr"`
	Render      renderChoice `xml:"render_choice"`
}

type renderChoice struct {
	Labels []responseLabel `xml:"response_label"`
}

type responseLabel struct {
	Ident    string   `xml:"ident,attr"`
	Material material `xml:"material"`
}

type resprocessing struct {
	Outcomes   outcomes        `xml:"outcomes"`
	Conditions []respcondition `xml:"respcondition"`
}

type outcomes struct {
	Decvar decvar `xml:"decvar"`
}

type decvar struct {
	MaxValue string `xml:"maxvalue,attr"`
	MinValue string `xml:"minvalue,attr"`
	VarName  string `xml:"varname,attr"`
	VarType  string `xml:"vartype,attr"`
}

type respcondition struct {
	Continue string   `xml:"continue,attr"`
	VarEqual varequal `xml:"conditionvar>varequal"`
	SetVar   setvar   `xml:"setvar"`
}

type varequal struct {
	RespIdent string `xml:"respident,attr"`
	Value     string `xml:",chardata"`
}

type setvar struct {
	Action  string `xml:"action,attr"`
	VarName string `xml:"varname,attr"`
	Value   string `xml:",chardata"`
}

type itemFeedback struct {
	Ident string  `xml:"ident,attr"`
	Text  mattext `xml:"flow_mat>material>mattext"`
}

// --- manifest ---

type imsManifest struct {
	XMLName    xml.Name      `xml:"manifest"`
	Identifier string        `xml:"identifier,attr"`
	Xmlns      string        `xml:"xmlns,attr"`
	XmlnsIMSMD string        `xml:"xmlns:imsmd,attr"`
	Resources  []imsResource `xml:"resources>resource"`
}

type imsResource struct {
	Identifier   string          `xml:"identifier,attr"`
	Type         string          `xml:"type,attr"`
	Href         string          `xml:"href,attr,omitempty"`
	Files        []imsFile       `xml:"file"`
	Dependencies []imsDependency `xml:"dependency"`
}

type imsFile struct {
	Href string `xml:"href,attr"`
}

type imsDependency struct {
	IdentifierRef string `xml:"identifierref,attr"`
}

// --- quiz metadata ---

type quizMeta struct {
	XMLName        xml.Name `xml:"quiz"`
	Xmlns          string   `xml:"xmlns,attr"`
	Identifier     string   `xml:"identifier,attr"`
	Title          string   `xml:"title"`
	PointsPossible string   `xml:"points_possible"`
	QuizType       string   `xml:"quiz_type"`
}
