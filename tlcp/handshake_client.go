package tlcp

import "crypto/subtle"

// clientHandshake drives the client side of spec.md §4.7's ordered
// exchange: ClientHello -> {ServerHello, Certificate, ServerKeyExchange,
// ServerHelloDone} -> ClientKeyExchange -> ChangeCipherSpec -> Finished ->
// {ChangeCipherSpec, Finished}.
func (c *Conn) clientHandshake() error {
	clientRandom, err := c.randomBytes()
	if err != nil {
		return err
	}
	c.clientRandom = clientRandom

	hello := &ClientHello{
		Version:            Version,
		Random:             clientRandom,
		CipherSuites:        c.config.suites(),
		CompressionMethods: []uint8{0},
	}
	if err := c.writeHandshakeMessage(HandshakeTypeClientHello, hello.Marshal()); err != nil {
		return err
	}

	shBody, err := c.readHandshakeMessage(HandshakeTypeServerHello)
	if err != nil {
		return err
	}
	sh, err := ParseServerHello(shBody)
	if err != nil {
		return wrap(StageHandshake, AlertDecodeError, err)
	}
	if sh.Version != Version {
		return wrap(StageHandshake, AlertProtocolVersion, ErrProtocolVersion)
	}
	suite, ok := CipherSuiteByID(sh.ChosenSuite)
	if !ok || !offered(hello.CipherSuites, sh.ChosenSuite) {
		return wrap(StageHandshake, AlertHandshakeFailure, ErrNoCommonCipherSuite)
	}
	c.suite = suite
	c.serverRandom = sh.Random

	certBody, err := c.readHandshakeMessage(HandshakeTypeCertificate)
	if err != nil {
		return err
	}
	cert, err := ParseCertificate(certBody)
	if err != nil {
		return wrap(StageHandshake, AlertDecodeError, err)
	}
	if len(cert.Certs) != 2 {
		return wrap(StageCert, AlertBadCertificate, ErrCertificateChainLength)
	}
	signCertDER, encCertDER := cert.Certs[0], cert.Certs[1]

	skxBody, err := c.readHandshakeMessage(HandshakeTypeServerKeyExchange)
	if err != nil {
		return err
	}
	skx, err := ParseServerKeyExchange(skxBody)
	if err != nil {
		return wrap(StageHandshake, AlertDecodeError, err)
	}
	if err := VerifyServerKeyExchange(signCertDER, encCertDER, c.clientRandom, c.serverRandom, skx); err != nil {
		return err
	}

	shdBody, err := c.readHandshakeMessage(HandshakeTypeServerHelloDone)
	if err != nil {
		return err
	}
	if _, err := ParseServerHelloDone(shdBody); err != nil {
		return wrap(StageHandshake, AlertDecodeError, err)
	}

	encPub, err := ExtractSM2PublicKey(encCertDER)
	if err != nil {
		return err
	}
	preMaster, err := BuildPreMaster(c.config.rand(), hello.Version)
	if err != nil {
		return err
	}
	ckx, err := BuildClientKeyExchange(encPub, preMaster)
	if err != nil {
		return err
	}
	if err := c.writeHandshakeMessage(HandshakeTypeClientKeyExchange, ckx.Marshal()); err != nil {
		return err
	}

	masterSecret := MasterSecret(preMaster[:], c.clientRandom[:], c.serverRandom[:])
	c.masterSecret = masterSecret
	kb := DeriveKeyBlock(suite, masterSecret, c.clientRandom[:], c.serverRandom[:])

	if err := c.output.PrepareCipherSpec(suite, kb.ClientWriteMACKey, kb.ClientWriteKey, kb.ClientWriteIV); err != nil {
		return err
	}
	if err := c.writeChangeCipherSpec(); err != nil {
		return err
	}
	if err := c.output.ChangeCipherSpec(); err != nil {
		return err
	}
	c.writeSeq = 0

	clientVerify := FinishedVerifyData(masterSecret, true, c.transcript.Sum())
	if err := c.writeHandshakeMessage(HandshakeTypeFinished, (&Finished{VerifyData: toArray12(clientVerify)}).Marshal()); err != nil {
		return err
	}

	if err := c.input.PrepareCipherSpec(suite, kb.ServerWriteMACKey, kb.ServerWriteKey, kb.ServerWriteIV); err != nil {
		return err
	}
	if err := c.readChangeCipherSpec(); err != nil {
		return err
	}
	if err := c.input.ChangeCipherSpec(); err != nil {
		return err
	}
	c.readSeq = 0

	expectedServerVerify := FinishedVerifyData(masterSecret, false, c.transcript.Sum())
	finBody, err := c.readHandshakeMessage(HandshakeTypeFinished)
	if err != nil {
		return err
	}
	fin, err := ParseFinished(finBody)
	if err != nil {
		return wrap(StageHandshake, AlertDecodeError, err)
	}
	if subtle.ConstantTimeCompare(fin.VerifyData[:], expectedServerVerify) != 1 {
		return wrap(StageHandshake, AlertHandshakeFailure, ErrFinishedMismatch)
	}

	c.version = Version
	return nil
}

func offered(suites []CipherSuiteID, id CipherSuiteID) bool {
	for _, s := range suites {
		if s == id {
			return true
		}
	}
	return false
}

func toArray12(b []byte) [finishedVerifyDataLen]byte {
	var out [finishedVerifyDataLen]byte
	copy(out[:], b)
	return out
}
