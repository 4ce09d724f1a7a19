package ast

type NodeType string

const (
	NodeIdentifier          NodeType = "Identifier"
	NodeIntegerLiteral      NodeType = "IntegerLiteral"
	NodeFloatLiteral        NodeType = "FloatLiteral"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeNullLiteral         NodeType = "NullLiteral"
	NodeArrayLiteral        NodeType = "ArrayLiteral"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeFunctionCall        NodeType = "FunctionCall"
	NodeMethodCall          NodeType = "MethodCall"
	NodeMemberAccess        NodeType = "MemberAccess"
	NodeIndexExpression     NodeType = "IndexExpression"
	NodePostfixIncrement    NodeType = "PostfixIncrement"
	NodeBlock               NodeType = "Block"
	NodeAssignment          NodeType = "Assignment"
	NodeIndexAssignment     NodeType = "IndexAssignment"
	NodeAttributeAssignment NodeType = "AttributeAssignment"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeIncrementStatement  NodeType = "IncrementStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeForStatement        NodeType = "ForStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeTryCatchStatement   NodeType = "TryCatchStatement"
	NodeEchoStatement       NodeType = "EchoStatement"
	NodeImportStatement     NodeType = "ImportStatement"
	NodeBreakStatement      NodeType = "BreakStatement"
	NodeContinueStatement   NodeType = "ContinueStatement"
	NodeThrowStatement      NodeType = "ThrowStatement"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

// Expression nodes are also statements: a bare call or increment is a valid
// statement on its own.
type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// AssignmentTarget is an expression that may appear left of '=' or be incremented.
type AssignmentTarget interface {
	Expression
	assignmentTarget()
}

type assignmentTargetMarker struct{}

func (assignmentTargetMarker) assignmentTarget() {}

// Expressions

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

type ArrayLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// UnaryExpression covers '!', '-', and prefix '++'. For '++' the operand is an
// AssignmentTarget.
type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name      string       `json:"name"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(name string, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Name: name, Arguments: args}
}

type MethodCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Receiver  Expression   `json:"receiver"`
	Method    string       `json:"method"`
	Arguments []Expression `json:"arguments"`
}

func NewMethodCall(receiver Expression, method string, args []Expression) *MethodCall {
	return &MethodCall{nodeImpl: newNodeImpl(NodeMethodCall), Receiver: receiver, Method: method, Arguments: args}
}

// MemberAccess reads an object attribute or a module constant.
type MemberAccess struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Receiver Expression `json:"receiver"`
	Member   string     `json:"member"`
}

func NewMemberAccess(receiver Expression, member string) *MemberAccess {
	return &MemberAccess{nodeImpl: newNodeImpl(NodeMemberAccess), Receiver: receiver, Member: member}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

// PostfixIncrement evaluates to the target's value before it was incremented.
type PostfixIncrement struct {
	nodeImpl
	expressionMarker
	statementMarker

	Target AssignmentTarget `json:"target"`
}

func NewPostfixIncrement(target AssignmentTarget) *PostfixIncrement {
	return &PostfixIncrement{nodeImpl: newNodeImpl(NodePostfixIncrement), Target: target}
}

// Statements

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

type Assignment struct {
	nodeImpl
	statementMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewAssignment(name string, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Name: name, Value: value}
}

// IndexAssignment stores into an array element: target[index] = value.
type IndexAssignment struct {
	nodeImpl
	statementMarker

	Target *IndexExpression `json:"target"`
	Value  Expression       `json:"value"`
}

func NewIndexAssignment(target *IndexExpression, value Expression) *IndexAssignment {
	return &IndexAssignment{nodeImpl: newNodeImpl(NodeIndexAssignment), Target: target, Value: value}
}

type AttributeAssignment struct {
	nodeImpl
	statementMarker

	Target *MemberAccess `json:"target"`
	Value  Expression    `json:"value"`
}

func NewAttributeAssignment(target *MemberAccess, value Expression) *AttributeAssignment {
	return &AttributeAssignment{nodeImpl: newNodeImpl(NodeAttributeAssignment), Target: target, Value: value}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type IncrementStatement struct {
	nodeImpl
	statementMarker

	Target AssignmentTarget `json:"target"`
	Prefix bool             `json:"prefix"`
}

func NewIncrementStatement(target AssignmentTarget, prefix bool) *IncrementStatement {
	return &IncrementStatement{nodeImpl: newNodeImpl(NodeIncrementStatement), Target: target, Prefix: prefix}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      *Block     `json:"then"`
	Else      *Block     `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, elseBlock *Block) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: elseBlock}
}

type ForStatement struct {
	nodeImpl
	statementMarker

	Init      Statement  `json:"init,omitempty"`
	Condition Expression `json:"condition,omitempty"`
	Increment Statement  `json:"increment,omitempty"`
	Body      *Block     `json:"body"`
}

func NewForStatement(init Statement, condition Expression, increment Statement, body *Block) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Init: init, Condition: condition, Increment: increment, Body: body}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhileStatement(condition Expression, body *Block) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

type TryCatchStatement struct {
	nodeImpl
	statementMarker

	Body      *Block `json:"body"`
	ErrorName string `json:"errorName"`
	Handler   *Block `json:"handler"`
}

func NewTryCatchStatement(body *Block, errorName string, handler *Block) *TryCatchStatement {
	return &TryCatchStatement{nodeImpl: newNodeImpl(NodeTryCatchStatement), Body: body, ErrorName: errorName, Handler: handler}
}

type EchoStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value"`
}

func NewEchoStatement(value Expression) *EchoStatement {
	return &EchoStatement{nodeImpl: newNodeImpl(NodeEchoStatement), Value: value}
}

type ImportStatement struct {
	nodeImpl
	statementMarker

	Module string `json:"module"`
	Alias  string `json:"alias,omitempty"`
}

func NewImportStatement(module, alias string) *ImportStatement {
	return &ImportStatement{nodeImpl: newNodeImpl(NodeImportStatement), Module: module, Alias: alias}
}

// BindingName is the name the module is bound to in scope.
func (s *ImportStatement) BindingName() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Module
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type ThrowStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value"`
}

func NewThrowStatement(value Expression) *ThrowStatement {
	return &ThrowStatement{nodeImpl: newNodeImpl(NodeThrowStatement), Value: value}
}
