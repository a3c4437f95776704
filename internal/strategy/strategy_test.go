package strategy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"method-integrator/internal/classfile"
	"method-integrator/internal/classpath"
	"method-integrator/internal/integration"
)

var lineNumbers = classfile.NewAttribute(classfile.AttrLineNumberTable, []byte{0, 1, 0, 0, 0, 7})

// newClass builds an abstract class so abstract methods can be declared too.
func newClass(t *testing.T) *classfile.Class {
	t.Helper()

	c, err := classfile.New("com/example/Service", "java/lang/Object", classfile.Java8)
	require.NoError(t, err)
	c.AccessFlags |= classfile.AccAbstract
	return c
}

func define(t *testing.T, c *classfile.Class, flags uint16, name, desc string, code *classfile.Code) *classfile.Method {
	t.Helper()

	m, err := c.DefineMethod(flags, name, desc, code)
	require.NoError(t, err)
	return m
}

func TestIdentity(t *testing.T) {
	m := classfile.NewMethod(classfile.AccPublic, "foo", "()V")
	out, err := Identity{}.Transform(m)
	require.NoError(t, err)
	assert.Same(t, m, out)
}

func TestStripDebug(t *testing.T) {
	c := newClass(t)
	keep := classfile.NewAttribute("CustomAttr", []byte{1, 2})
	m := define(t, c, classfile.AccPublic, "foo", "()V", &classfile.Code{
		MaxStack:   0,
		MaxLocals:  1,
		Bytecode:   []byte{opReturn},
		Attributes: []classfile.Attribute{lineNumbers, keep},
	})

	out, err := StripDebug{}.Transform(m)
	require.NoError(t, err)
	assert.NotSame(t, m, out)

	code, err := out.Code()
	require.NoError(t, err)
	require.Len(t, code.Attributes, 1)
	assert.Equal(t, "CustomAttr", code.Attributes[0].Name)
	assert.Equal(t, []byte{opReturn}, code.Bytecode)

	// The input is left alone.
	orig, err := m.Code()
	require.NoError(t, err)
	assert.Len(t, orig.Attributes, 2)

	custom, err := StripDebug{Attributes: []string{"CustomAttr"}}.Transform(m)
	require.NoError(t, err)
	code, err = custom.Code()
	require.NoError(t, err)
	require.Len(t, code.Attributes, 1)
	assert.Equal(t, classfile.AttrLineNumberTable, code.Attributes[0].Name)
}

func TestStripDebug_NoBody(t *testing.T) {
	c := newClass(t)
	m := define(t, c, classfile.AccPublic|classfile.AccAbstract, "run", "()V", nil)

	out, err := StripDebug{}.Transform(m)
	require.NoError(t, err)
	assert.True(t, m.Equal(out))
}

func TestStub(t *testing.T) {
	tests := []struct {
		name      string
		flags     uint16
		desc      string
		wantCode  []byte
		wantStack uint16
		wantLocal uint16
	}{
		{"void instance", classfile.AccPublic, "()V", []byte{opReturn}, 0, 1},
		{"int", classfile.AccPublic, "(I)I", []byte{opIConst0, opIReturn}, 1, 2},
		{"boolean static", classfile.AccStatic, "(JD)Z", []byte{opIConst0, opIReturn}, 1, 4},
		{"long", classfile.AccPublic, "()J", []byte{opLConst0, opLReturn}, 2, 1},
		{"float", classfile.AccPublic, "(F)F", []byte{opFConst0, opFReturn}, 1, 2},
		{"double static", classfile.AccStatic, "()D", []byte{opDConst0, opDReturn}, 2, 0},
		{"object", classfile.AccPublic, "(Ljava/lang/String;)Ljava/lang/Object;", []byte{opAConstNull, opAReturn}, 1, 2},
		{"array", classfile.AccPublic, "()[I", []byte{opAConstNull, opAReturn}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClass(t)
			m := define(t, c, tt.flags, "compute", tt.desc, &classfile.Code{
				MaxStack:       8,
				MaxLocals:      8,
				Bytecode:       []byte{0x00, 0x00, opReturn},
				ExceptionTable: []classfile.ExceptionHandler{{StartPC: 0, EndPC: 2, HandlerPC: 2}},
				Attributes:     []classfile.Attribute{lineNumbers},
			})

			out, err := Stub{}.Transform(m)
			require.NoError(t, err)
			assert.Equal(t, m.Key(), out.Key())

			code, err := out.Code()
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, code.Bytecode)
			assert.Equal(t, tt.wantStack, code.MaxStack)
			assert.Equal(t, tt.wantLocal, code.MaxLocals)
			assert.Empty(t, code.ExceptionTable)
			assert.Empty(t, code.Attributes)

			require.NoError(t, c.Remove(m))
			require.NoError(t, c.Add(out))
			_, err = c.Bytes()
			require.NoError(t, err)
		})
	}
}

func TestStub_NoBody(t *testing.T) {
	c := newClass(t)
	m := define(t, c, classfile.AccPublic|classfile.AccAbstract, "run", "()V", nil)

	_, err := Stub{}.Transform(m)
	assert.ErrorIs(t, err, ErrNoBody)
}

func TestAccessFlags(t *testing.T) {
	m := classfile.NewMethod(classfile.AccPublic|classfile.AccSynchronized, "foo", "()V")

	out, err := AccessFlags{Set: classfile.AccFinal, Clear: classfile.AccSynchronized}.Transform(m)
	require.NoError(t, err)
	assert.Equal(t, classfile.AccPublic|classfile.AccFinal, out.AccessFlags)
	assert.Equal(t, classfile.AccPublic|classfile.AccSynchronized, m.AccessFlags)

	_, err = AccessFlags{Set: classfile.AccNative}.Transform(m)
	assert.ErrorIs(t, err, ErrForbiddenFlags)
	_, err = AccessFlags{Clear: classfile.AccAbstract}.Transform(m)
	assert.ErrorIs(t, err, ErrForbiddenFlags)
}

func TestChain(t *testing.T) {
	c := newClass(t)
	m := define(t, c, classfile.AccPublic, "foo", "()I", &classfile.Code{
		MaxStack:   1,
		MaxLocals:  1,
		Bytecode:   []byte{opIConst0, opIReturn},
		Attributes: []classfile.Attribute{lineNumbers},
	})

	out, err := Chain{StripDebug{}, AccessFlags{Set: classfile.AccFinal}}.Transform(m)
	require.NoError(t, err)
	assert.NotZero(t, out.AccessFlags&classfile.AccFinal)
	code, err := out.Code()
	require.NoError(t, err)
	assert.Empty(t, code.Attributes)

	empty, err := Chain{}.Transform(m)
	require.NoError(t, err)
	assert.Same(t, m, empty)

	errBoom := errors.New("boom")
	failing := integration.StrategyFunc(func(*classfile.Method) (*classfile.Method, error) { return nil, errBoom })
	_, err = Chain{Identity{}, failing}.Transform(m)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "step 2")

	nilStep := integration.StrategyFunc(func(*classfile.Method) (*classfile.Method, error) { return nil, nil })
	_, err = Chain{nilStep}.Transform(m)
	assert.Error(t, err)
}

func TestStub_ThroughEngine(t *testing.T) {
	c, err := classfile.New("com/example/Widget", "java/lang/Object", classfile.Java8)
	require.NoError(t, err)
	define(t, c, classfile.AccPublic, "size", "()I", &classfile.Code{
		MaxStack:  2,
		MaxLocals: 1,
		Bytecode:  []byte{0x04, 0x05, 0x60, opIReturn}, // iconst_1; iconst_2; iadd; ireturn
	})
	data, err := c.Bytes()
	require.NoError(t, err)

	engine := integration.NewEngine(Stub{}, integration.WithLogger(nil))
	out, err := engine.PerformIntegration(data, "com/example/Widget", "SIZE", "()I", nil)
	require.NoError(t, err)

	parsed, err := classfile.Parse(out)
	require.NoError(t, err)
	m, ok := parsed.Method("size", "()I")
	require.True(t, ok)
	code, err := m.Code()
	require.NoError(t, err)
	assert.Equal(t, []byte{opIConst0, opIReturn}, code.Bytecode)
}

// classWithConstructor returns the bytes of a class extending super whose
// constructor has the given flags and descriptor.
func classWithConstructor(t *testing.T, name, super string, flags uint16, desc string) []byte {
	t.Helper()

	c, err := classfile.New(name, super, classfile.Java8)
	require.NoError(t, err)
	typ, err := classfile.ParseMethodDescriptor(desc)
	require.NoError(t, err)
	define(t, c, flags, "<init>", desc, &classfile.Code{
		MaxStack:  1,
		MaxLocals: uint16(typ.ArgSlots() + 1),
		Bytecode:  []byte{opReturn},
	})

	data, err := c.Bytes()
	require.NoError(t, err)
	return data
}

func TestStub_Constructor(t *testing.T) {
	base := classWithConstructor(t, "com/example/Base", "java/lang/Object", classfile.AccPublic, "()V")
	hidden := classWithConstructor(t, "com/example/Base", "java/lang/Object", classfile.AccPrivate, "()V")
	withArgs := classWithConstructor(t, "com/example/Base", "java/lang/Object", classfile.AccPublic, "(I)V")

	tests := []struct {
		name      string
		super     string
		base      []byte
		wantErr   error
		wantOwner string
	}{
		{"object superclass", "java/lang/Object", nil, nil, "java/lang/Object"},
		{"resolved superclass", "com/example/Base", base, nil, "com/example/Base"},
		{"private super constructor", "com/example/Base", hidden, ErrNoSuperConstructor, ""},
		{"no no-arg super constructor", "com/example/Base", withArgs, ErrNoSuperConstructor, ""},
		{"superclass not on classpath", "com/example/Base", nil, classpath.ErrClassNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := classWithConstructor(t, "com/example/Widget", tt.super, classfile.AccPublic, "(J)V")
			c, err := classfile.Parse(data)
			require.NoError(t, err)

			var lookups []string
			var ctx classpath.Source = classpath.LoaderFunc(func(name string) ([]byte, error) {
				lookups = append(lookups, name)
				if tt.base == nil {
					return nil, classpath.ErrClassNotFound
				}
				return tt.base, nil
			})
			pool := classpath.NewPool(classpath.Bytes("com.example.Widget", data), ctx)

			m, ok := c.Method("<init>", "(J)V")
			require.True(t, ok)

			out, err := Stub{}.TransformIn(integration.NewTarget(c, pool), m)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			if tt.super == "java/lang/Object" {
				assert.Empty(t, lookups)
			} else {
				assert.Equal(t, []string{"com.example.Base"}, lookups)
			}

			code, err := out.Code()
			require.NoError(t, err)
			require.Len(t, code.Bytecode, 5)
			assert.Equal(t, []byte{opALoad0, opInvokeSpecial}, code.Bytecode[:2])
			assert.Equal(t, byte(opReturn), code.Bytecode[4])
			assert.Equal(t, uint16(1), code.MaxStack)
			assert.Equal(t, uint16(3), code.MaxLocals)

			ref, err := c.Pool().Get(uint16(code.Bytecode[2])<<8 | uint16(code.Bytecode[3]))
			require.NoError(t, err)
			assert.Equal(t, classfile.TagMethodref, ref.Tag)
			owner, err := c.Pool().ClassName(uint16(ref.Info[0])<<8 | uint16(ref.Info[1]))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
		})
	}
}

func TestStub_ConstructorNeedsClass(t *testing.T) {
	c := newClass(t)
	m := define(t, c, classfile.AccPublic, "<init>", "()V", &classfile.Code{MaxLocals: 1, Bytecode: []byte{opReturn}})

	_, err := Stub{}.Transform(m)
	assert.ErrorIs(t, err, ErrNoClass)

	_, err = Chain{StripDebug{}, Stub{}}.Transform(m)
	assert.ErrorIs(t, err, ErrNoClass)
}

func TestStub_ConstructorThroughEngine(t *testing.T) {
	base := classWithConstructor(t, "com/example/Base", "java/lang/Object", classfile.AccProtected, "()V")
	data := classWithConstructor(t, "com/example/Widget", "com/example/Base", classfile.AccPublic, "()V")

	var lookups []string
	ctx := classpath.LoaderFunc(func(name string) ([]byte, error) {
		lookups = append(lookups, name)
		if name == "com.example.Base" {
			return base, nil
		}
		return nil, classpath.ErrClassNotFound
	})

	engine := integration.NewEngine(Chain{StripDebug{}, Stub{}}, integration.WithLogger(nil))
	out, err := engine.PerformIntegration(data, "com/example/Widget", "<init>", "", ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.example.Base"}, lookups)

	parsed, err := classfile.Parse(out)
	require.NoError(t, err)
	m, ok := parsed.Method("<init>", "()V")
	require.True(t, ok)
	code, err := m.Code()
	require.NoError(t, err)
	assert.Equal(t, byte(opInvokeSpecial), code.Bytecode[1])

	_, err = engine.PerformIntegration(data, "com/example/Widget", "<init>", "", nil)
	require.ErrorIs(t, err, classpath.ErrClassNotFound)
	assert.Equal(t, integration.KindTransform, integration.KindOf(err))
}
