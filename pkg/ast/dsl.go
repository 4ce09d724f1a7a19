package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Flt(value float64) *FloatLiteral {
	return NewFloatLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Null() *NullLiteral {
	return NewNullLiteral()
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

// Expression helpers.

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(name, args)
}

func CallMethod(receiver Expression, method string, args ...Expression) *MethodCall {
	return NewMethodCall(receiver, method, args)
}

func Member(receiver Expression, member string) *MemberAccess {
	return NewMemberAccess(receiver, member)
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

func PostInc(target AssignmentTarget) *PostfixIncrement {
	return NewPostfixIncrement(target)
}

// Statement helpers.

func Blk(body ...Statement) *Block {
	return NewBlock(body)
}

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(name, value)
}

func AssignIndex(target *IndexExpression, value Expression) *IndexAssignment {
	return NewIndexAssignment(target, value)
}

func AssignMember(target *MemberAccess, value Expression) *AttributeAssignment {
	return NewAttributeAssignment(target, value)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Inc(target AssignmentTarget) *IncrementStatement {
	return NewIncrementStatement(target, false)
}

func Echo(value Expression) *EchoStatement {
	return NewEchoStatement(value)
}

func If(condition Expression, then *Block, elseBlock *Block) *IfStatement {
	return NewIfStatement(condition, then, elseBlock)
}

func While(condition Expression, body *Block) *WhileStatement {
	return NewWhileStatement(condition, body)
}

func For(init Statement, condition Expression, increment Statement, body *Block) *ForStatement {
	return NewForStatement(init, condition, increment, body)
}

func Try(body *Block, errorName string, handler *Block) *TryCatchStatement {
	return NewTryCatchStatement(body, errorName, handler)
}

func Throw(value Expression) *ThrowStatement {
	return NewThrowStatement(value)
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

func Import(module, alias string) *ImportStatement {
	return NewImportStatement(module, alias)
}
