package soap

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeWrapsBody(t *testing.T) {

	body := etree.NewElement("FECAESolicitar")
	body.CreateAttr("xmlns", "http://ar.gov.afip.dif.FEV1/")
	body.CreateElement("Auth").CreateElement("Token").SetText("tok")

	raw, err := envelope(body)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))

	env := doc.Root()
	assert.Equal(t, "Envelope", env.Tag)
	assert.Equal(t, envelopeNS, env.SelectAttrValue("xmlns:soapenv", ""))

	wrapped := doc.FindElement("//Body/FECAESolicitar")
	require.NotNil(t, wrapped)
	assert.Equal(t, "tok", wrapped.FindElement("Auth/Token").Text())
}

func TestEnvelopeLeavesOriginalBodyUnattached(t *testing.T) {

	body := etree.NewElement("Ping")

	_, err := envelope(body)
	require.NoError(t, err)

	assert.Nil(t, body.Parent(), "envelope must copy, not steal, the body element")
}

func TestFaultError(t *testing.T) {

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<Envelope><Body>
<Fault><faultcode>soap:Client</faultcode><faultstring>CMS invalido</faultstring></Fault>
</Body></Envelope>`))

	err := faultError(500, doc.FindElement("//Fault"))

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 500, reqErr.StatusCode)
	assert.Equal(t, "soap:Client", reqErr.FaultCode)
	assert.Contains(t, reqErr.Error(), "CMS invalido")
}
