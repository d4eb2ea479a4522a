package tlcp

import "crypto/subtle"

// serverHandshake drives the server side of spec.md §4.7's exchange,
// mirroring clientHandshake's message order from the other end.
func (c *Conn) serverHandshake() error {
	chBody, err := c.readHandshakeMessage(HandshakeTypeClientHello)
	if err != nil {
		return err
	}
	ch, err := ParseClientHello(chBody)
	if err != nil {
		return wrap(StageHandshake, AlertDecodeError, err)
	}
	if ch.Version != Version {
		return wrap(StageHandshake, AlertProtocolVersion, ErrProtocolVersion)
	}
	c.clientRandom = ch.Random

	suite, ok := chooseSuite(c.config.suites(), ch.CipherSuites)
	if !ok {
		return wrap(StageHandshake, AlertHandshakeFailure, ErrNoCommonCipherSuite)
	}
	c.suite = suite

	serverRandom, err := c.randomBytes()
	if err != nil {
		return err
	}
	c.serverRandom = serverRandom

	sh := &ServerHello{
		Version:           Version,
		Random:            serverRandom,
		ChosenSuite:       suite.ID,
		ChosenCompression: 0,
	}
	if err := c.writeHandshakeMessage(HandshakeTypeServerHello, sh.Marshal()); err != nil {
		return err
	}

	signCertDER, encCertDER, err := c.engine.Certificates()
	if err != nil {
		return wrap(StageCert, AlertInternalError, err)
	}
	cert := &Certificate{Certs: [][]byte{signCertDER, encCertDER}}
	if err := c.writeHandshakeMessage(HandshakeTypeCertificate, cert.Marshal()); err != nil {
		return err
	}

	signKey, err := c.engine.SignKey()
	if err != nil {
		return wrap(StageKeyAgree, AlertInternalError, err)
	}
	skx, err := BuildServerKeyExchange(signKey, c.clientRandom, c.serverRandom, encCertDER)
	if err != nil {
		return err
	}
	if err := c.writeHandshakeMessage(HandshakeTypeServerKeyExchange, skx.Marshal()); err != nil {
		return err
	}

	if err := c.writeHandshakeMessage(HandshakeTypeServerHelloDone, (&ServerHelloDone{}).Marshal()); err != nil {
		return err
	}

	ckxBody, err := c.readHandshakeMessage(HandshakeTypeClientKeyExchange)
	if err != nil {
		return err
	}
	ckx, err := ParseClientKeyExchange(ckxBody)
	if err != nil {
		return wrap(StageHandshake, AlertDecodeError, err)
	}
	encKey, err := c.engine.EncKey()
	if err != nil {
		return wrap(StageKeyAgree, AlertInternalError, err)
	}
	preMaster, err := DecryptClientKeyExchange(encKey, ckx)
	if err != nil {
		return err
	}

	masterSecret := MasterSecret(preMaster[:], c.clientRandom[:], c.serverRandom[:])
	c.masterSecret = masterSecret
	kb := DeriveKeyBlock(suite, masterSecret, c.clientRandom[:], c.serverRandom[:])

	if err := c.input.PrepareCipherSpec(suite, kb.ClientWriteMACKey, kb.ClientWriteKey, kb.ClientWriteIV); err != nil {
		return err
	}
	if err := c.readChangeCipherSpec(); err != nil {
		return err
	}
	if err := c.input.ChangeCipherSpec(); err != nil {
		return err
	}
	c.readSeq = 0

	expectedClientVerify := FinishedVerifyData(masterSecret, true, c.transcript.Sum())
	finBody, err := c.readHandshakeMessage(HandshakeTypeFinished)
	if err != nil {
		return err
	}
	fin, err := ParseFinished(finBody)
	if err != nil {
		return wrap(StageHandshake, AlertDecodeError, err)
	}
	if subtle.ConstantTimeCompare(fin.VerifyData[:], expectedClientVerify) != 1 {
		return wrap(StageHandshake, AlertHandshakeFailure, ErrFinishedMismatch)
	}

	if err := c.output.PrepareCipherSpec(suite, kb.ServerWriteMACKey, kb.ServerWriteKey, kb.ServerWriteIV); err != nil {
		return err
	}
	if err := c.writeChangeCipherSpec(); err != nil {
		return err
	}
	if err := c.output.ChangeCipherSpec(); err != nil {
		return err
	}
	c.writeSeq = 0

	serverVerify := FinishedVerifyData(masterSecret, false, c.transcript.Sum())
	if err := c.writeHandshakeMessage(HandshakeTypeFinished, (&Finished{VerifyData: toArray12(serverVerify)}).Marshal()); err != nil {
		return err
	}

	c.version = Version
	return nil
}

// chooseSuite picks the first of the server's supported suites (in its own
// preference order) that the client also offered, per spec.md §4.7.
func chooseSuite(supported []CipherSuiteID, offeredByClient []CipherSuiteID) (CipherSuite, bool) {
	for _, want := range supported {
		for _, got := range offeredByClient {
			if want == got {
				return CipherSuiteByID(want)
			}
		}
	}
	return CipherSuite{}, false
}
